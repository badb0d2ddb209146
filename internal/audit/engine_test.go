package audit_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/attribution-engine/internal/audit"
	"github.com/marketlens/attribution-engine/internal/logger"
	"github.com/marketlens/attribution-engine/internal/mocks"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testEngineMocks struct {
	ctrl  *gomock.Controller
	store *mocks.MockStore
	clock *mocks.MockClock
}

func setupTestEngine(t *testing.T) *testEngineMocks {
	ctrl := gomock.NewController(t)

	tm := &testEngineMocks{
		ctrl:  ctrl,
		store: mocks.NewMockStore(ctrl),
		clock: mocks.NewMockClock(ctrl),
	}

	tm.clock.EXPECT().Now().Return(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	return tm
}

func tearDownTestEngine(mocks *testEngineMocks) {
	mocks.ctrl.Finish()
}

func strPtr(s string) *string {
	return &s
}

// stubTables wires the mock store to page through the given slices,
// honoring limit and offset the way the real store does.
func stubTables(tm *testEngineMocks, leads []*schema.Lead, orders []*schema.Order) {
	tm.store.EXPECT().
		ListLeads(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, limit, offset int) ([]*schema.Lead, error) {
			return pageOf(leads, limit, offset), nil
		}).
		AnyTimes()
	tm.store.EXPECT().
		ListOrders(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, limit, offset int) ([]*schema.Order, error) {
			return pageOf(orders, limit, offset), nil
		}).
		AnyTimes()
}

func pageOf[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func TestEngine_Run_LeadStats(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	leads := []*schema.Lead{
		{ID: 1, Email: "alice@example.com", GCLID: strPtr("g-1"),
			SourceURL: strPtr("https://shop.example.com/?utm_source=google&utm_medium=cpc&utm_campaign=sale&gclid=g-1")},
		{ID: 2, Email: "bob@example.com", FBCLID: strPtr("fb-1"),
			SourceURL: strPtr("https://shop.example.com/?utm_source=facebook")},
		// Malformed URL: unparseable, but substring matching still counts it
		{ID: 3, Email: "carol@example.com",
			SourceURL: strPtr("::bad::?utm_source=weird")},
		{ID: 4, Email: "dave@example.com"},
		{ID: 5, Email: "erin@example.com", GCLID: strPtr("g-2"), FBCLID: strPtr("fb-2")},
	}
	stubTables(tm, leads, nil)

	engine := audit.NewEngine(tm.store, tm.clock, 2)
	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Leads.Total)
	assert.Equal(t, 2, report.Leads.WithGclid)
	assert.Equal(t, 2, report.Leads.WithFbclid)
	// Lead 5 has both identifiers but counts once
	assert.Equal(t, 3, report.Leads.WithClickID)
	assert.Equal(t, 3, report.Leads.WithSourceURL)
	assert.Equal(t, 3, report.Leads.WithUTMSource)
	assert.Equal(t, 1, report.Leads.WithUTMMedium)
	assert.Equal(t, 1, report.Leads.WithUTMCampaign)
	assert.Len(t, report.SampleURLs, 3)
}

func TestEngine_Run_SemiJoin(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	leads := []*schema.Lead{
		{ID: 1, Email: "a@x.com", GCLID: strPtr("g1")},
		{ID: 2, Email: "b@x.com"},
	}
	orders := []*schema.Order{
		{ID: 1, Email: "A@X.com", Total: 12900},
		{ID: 2, Email: "c@x.com", Total: 990},
	}
	stubTables(tm, leads, orders)

	engine := audit.NewEngine(tm.store, tm.clock, 500)
	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	// Email comparison is case-insensitive
	assert.Equal(t, 2, report.Orders.Total)
	assert.Equal(t, 1, report.Orders.FromLeads)
	assert.Equal(t, 1, report.Orders.FromGclidLeads)
	assert.Equal(t, 0, report.Orders.FromFbclidLeads)
	assert.Equal(t, 1, report.Orders.Direct)

	assert.Equal(t, int64(13890), report.Orders.Revenue)
	assert.Equal(t, int64(12900), report.Orders.RevenueFromLeads)
	assert.Equal(t, int64(12900), report.Orders.RevenueFromGclid)
	assert.Equal(t, int64(990), report.Orders.RevenueDirect)
}

func TestEngine_Run_ReferrerRanking(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	leads := []*schema.Lead{
		{ID: 1, Email: "a@x.com", SourceURL: strPtr("https://x.com/?ref=partner")},
		{ID: 2, Email: "b@x.com", SourceURL: strPtr("https://x.com/?ref=partner")},
		{ID: 3, Email: "c@x.com", SourceURL: strPtr("https://x.com/?referrer=blog")},
		{ID: 4, Email: "d@x.com", SourceURL: strPtr("https://x.com/?utm_source=google")},
		{ID: 5, Email: "e@x.com", SourceURL: strPtr("https://x.com/?utm_source=google")},
		// Invalid URL is skipped by the histogram scan
		{ID: 6, Email: "f@x.com", SourceURL: strPtr("::bad::?ref=ghost")},
		{ID: 7, Email: "g@x.com", SourceURL: strPtr("https://x.com/?ref=news&utm_source=news")},
	}
	stubTables(tm, leads, nil)

	engine := audit.NewEngine(tm.store, tm.clock, 3)
	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	// Descending by count, ties broken by key ascending
	assert.Equal(t, []audit.ReferrerCount{
		{Key: "ref:partner", Count: 2},
		{Key: "utm:google", Count: 2},
		{Key: "ref:blog", Count: 1},
		{Key: "ref:news", Count: 1},
		{Key: "utm:news", Count: 1},
	}, report.TopReferrers)
}

func TestEngine_Run_ShortPageTermination(t *testing.T) {
	makeLeads := func(n int) []*schema.Lead {
		leads := make([]*schema.Lead, n)
		for i := range leads {
			leads[i] = &schema.Lead{ID: uint64(i + 1), Email: "bulk@x.com"}
		}
		return leads
	}

	// Each Run walks the leads table twice (stats and referrers), so the
	// expected ListLeads count is twice the per-walk fetch count. Both
	// walks page by pageSize; the fetch counters catch any offset drift.
	t.Run("exact multiple costs one empty page", func(t *testing.T) {
		tm := setupTestEngine(t)
		defer tearDownTestEngine(tm)

		leads := makeLeads(6)
		var leadFetches, orderFetches atomic.Int64
		tm.store.EXPECT().
			ListLeads(gomock.Any(), 2, gomock.Any()).
			DoAndReturn(func(_ context.Context, limit, offset int) ([]*schema.Lead, error) {
				leadFetches.Add(1)
				return pageOf(leads, limit, offset), nil
			}).
			AnyTimes()
		tm.store.EXPECT().
			ListOrders(gomock.Any(), 2, gomock.Any()).
			DoAndReturn(func(_ context.Context, limit, offset int) ([]*schema.Order, error) {
				orderFetches.Add(1)
				return nil, nil
			}).
			AnyTimes()

		engine := audit.NewEngine(tm.store, tm.clock, 2)
		report, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 6, report.Leads.Total)
		assert.Equal(t, 0, report.Orders.Total)

		// 6 leads / page 2: three full pages plus the empty fourth, per walk
		assert.Equal(t, int64(2*4), leadFetches.Load())
		assert.Equal(t, int64(1), orderFetches.Load())
	})

	t.Run("remainder page terminates without an extra fetch", func(t *testing.T) {
		tm := setupTestEngine(t)
		defer tearDownTestEngine(tm)

		leads := makeLeads(5)
		var leadFetches atomic.Int64
		tm.store.EXPECT().
			ListLeads(gomock.Any(), 2, gomock.Any()).
			DoAndReturn(func(_ context.Context, limit, offset int) ([]*schema.Lead, error) {
				leadFetches.Add(1)
				return pageOf(leads, limit, offset), nil
			}).
			AnyTimes()
		tm.store.EXPECT().
			ListOrders(gomock.Any(), 2, gomock.Any()).
			Return(nil, nil)

		engine := audit.NewEngine(tm.store, tm.clock, 2)
		report, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, report.Leads.Total)

		// 5 leads / page 2: the short third page ends each walk
		assert.Equal(t, int64(2*3), leadFetches.Load())
	})
}

func TestEngine_Run_ScanFailure(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	tm.store.EXPECT().
		ListLeads(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset")).
		AnyTimes()

	engine := audit.NewEngine(tm.store, tm.clock, 500)
	_, err := engine.Run(context.Background())
	assert.Error(t, err)
}

func TestEngine_Run_SampleURLCap(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	var leads []*schema.Lead
	for i := 0; i < 25; i++ {
		leads = append(leads, &schema.Lead{
			ID:        uint64(i + 1),
			Email:     "bulk@x.com",
			SourceURL: strPtr("https://x.com/landing"),
		})
	}
	stubTables(tm, leads, nil)

	engine := audit.NewEngine(tm.store, tm.clock, 10)
	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.SampleURLs, 10)
	assert.Equal(t, 25, report.Leads.WithSourceURL)
}
