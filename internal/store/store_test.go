package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func strPtr(s string) *string {
	return &s
}

// buildTestVisitor creates a visitor row with first and last touch mirroring
// each other, the shape produced by a "new visitor" beacon
func buildTestVisitor(id, fingerprint, source string) *schema.Visitor {
	now := time.Now().UTC()
	return &schema.Visitor{
		ID:               id,
		Fingerprint:      fingerprint,
		FirstUTMSource:   strPtr(source),
		FirstUTMMedium:   strPtr("cpc"),
		FirstLandingPage: strPtr("https://shop.example.com/sale"),
		LastUTMSource:    strPtr(source),
		LastUTMMedium:    strPtr("cpc"),
		LastLandingPage:  strPtr("https://shop.example.com/sale"),
		FirstSeenAt:      now,
		LastSeenAt:       now,
		SessionCount:     1,
	}
}

// buildTestSession creates a session row owned by the given visitor
func buildTestSession(id, visitorID string) *schema.Session {
	clicks, _ := json.Marshal(map[string]string{"msclkid": "m-1"})
	return &schema.Session{
		ID:          id,
		VisitorID:   visitorID,
		UTMSource:   strPtr("google"),
		UTMMedium:   strPtr("cpc"),
		LandingPage: strPtr("https://shop.example.com/sale"),
		AdClickData: datatypes.JSON(clicks),
		DeviceType:  strPtr("mobile"),
		Browser:     strPtr("safari"),
		OS:          strPtr("ios"),
		StartedAt:   time.Now().UTC(),
	}
}

// =============================================================================
// Test: visitors
// =============================================================================

func testInsertVisitor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("first insert reports Inserted", func(t *testing.T) {
		outcome, err := store.InsertVisitor(ctx, buildTestVisitor("01VISITOR1", "fp-insert-1", "google"))
		require.NoError(t, err)
		assert.Equal(t, domain.Inserted, outcome)
	})

	t.Run("replayed insert reports AlreadyExists and keeps first touch", func(t *testing.T) {
		_, err := store.InsertVisitor(ctx, buildTestVisitor("01VISITOR2", "fp-insert-2", "google"))
		require.NoError(t, err)

		// Replay with different attribution, as a retried beacon might carry
		outcome, err := store.InsertVisitor(ctx, buildTestVisitor("01VISITOR2B", "fp-insert-2", "facebook"))
		require.NoError(t, err)
		assert.Equal(t, domain.AlreadyExists, outcome)

		visitor, err := store.GetVisitorByFingerprint(ctx, "fp-insert-2")
		require.NoError(t, err)
		require.NotNil(t, visitor)
		assert.Equal(t, "01VISITOR2", visitor.ID)
		assert.Equal(t, "google", *visitor.FirstUTMSource)
	})
}

func testUpdateVisitorLastTouch(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("overwrites last touch only", func(t *testing.T) {
		_, err := store.InsertVisitor(ctx, buildTestVisitor("01VISITOR3", "fp-touch-1", "google"))
		require.NoError(t, err)

		seenAt := time.Now().UTC().Add(time.Hour)
		rows, err := store.UpdateVisitorLastTouch(ctx, UpdateLastTouchInput{
			Fingerprint: "fp-touch-1",
			Attribution: domain.Attribution{Source: "newsletter", Medium: "email"},
			SeenAt:      seenAt,
			NewSession:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		visitor, err := store.GetVisitorByFingerprint(ctx, "fp-touch-1")
		require.NoError(t, err)
		require.NotNil(t, visitor)
		assert.Equal(t, "google", *visitor.FirstUTMSource)
		assert.Equal(t, "newsletter", *visitor.LastUTMSource)
		assert.Equal(t, "email", *visitor.LastUTMMedium)
		assert.Nil(t, visitor.LastLandingPage) // not captured this session
		assert.Equal(t, 2, visitor.SessionCount)
	})

	t.Run("missing fingerprint matches zero rows", func(t *testing.T) {
		rows, err := store.UpdateVisitorLastTouch(ctx, UpdateLastTouchInput{
			Fingerprint: "fp-does-not-exist",
			Attribution: domain.Attribution{Source: "google"},
			SeenAt:      time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})
}

func testLinkVisitorToCustomer(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.InsertVisitor(ctx, buildTestVisitor("01VISITOR4", "fp-link-1", "google"))
	require.NoError(t, err)

	// Linking twice to the same customer is idempotent
	require.NoError(t, store.LinkVisitorToCustomer(ctx, "01VISITOR4", "cust-1"))
	require.NoError(t, store.LinkVisitorToCustomer(ctx, "01VISITOR4", "cust-1"))

	visitor, err := store.GetVisitorByFingerprint(ctx, "fp-link-1")
	require.NoError(t, err)
	require.NotNil(t, visitor.CustomerID)
	assert.Equal(t, "cust-1", *visitor.CustomerID)
}

// =============================================================================
// Test: sessions
// =============================================================================

func testInsertSession(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("insert and replay", func(t *testing.T) {
		outcome, err := store.InsertSession(ctx, buildTestSession("sess-1", "01VISITOR1"))
		require.NoError(t, err)
		assert.Equal(t, domain.Inserted, outcome)

		outcome, err = store.InsertSession(ctx, buildTestSession("sess-1", "01VISITOR1"))
		require.NoError(t, err)
		assert.Equal(t, domain.AlreadyExists, outcome)
	})

	t.Run("round trips the ad click map", func(t *testing.T) {
		_, err := store.InsertSession(ctx, buildTestSession("sess-2", "01VISITOR1"))
		require.NoError(t, err)

		session, err := store.GetSessionByID(ctx, "sess-2")
		require.NoError(t, err)
		require.NotNil(t, session)

		var clicks map[string]string
		require.NoError(t, json.Unmarshal(session.AdClickData, &clicks))
		assert.Equal(t, map[string]string{"msclkid": "m-1"}, clicks)
		assert.False(t, session.Converted)
	})
}

func testMarkSessionConverted(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.InsertSession(ctx, buildTestSession("sess-conv-1", "01VISITOR1"))
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, store.MarkSessionConverted(ctx, "sess-conv-1", domain.ConversionTypeEmail, at))

	session, err := store.GetSessionByID(ctx, "sess-conv-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.Converted)
	assert.Equal(t, "email", *session.ConversionType)
	require.NotNil(t, session.ConvertedAt)

	err = store.MarkSessionConverted(ctx, "sess-missing", domain.ConversionTypeEmail, at)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func testIncrementPageviews(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.InsertVisitor(ctx, buildTestVisitor("01VISITOR5", "fp-pv-1", "google"))
	require.NoError(t, err)
	_, err = store.InsertSession(ctx, buildTestSession("sess-pv-1", "01VISITOR5"))
	require.NoError(t, err)

	require.NoError(t, store.IncrementSessionPageviews(ctx, "sess-pv-1"))
	require.NoError(t, store.IncrementSessionPageviews(ctx, "sess-pv-1"))
	require.NoError(t, store.IncrementVisitorPageviews(ctx, "fp-pv-1"))

	session, err := store.GetSessionByID(ctx, "sess-pv-1")
	require.NoError(t, err)
	assert.Equal(t, 2, session.PageviewCount)

	visitor, err := store.GetVisitorByFingerprint(ctx, "fp-pv-1")
	require.NoError(t, err)
	assert.Equal(t, 1, visitor.TotalPageviews)

	assert.ErrorIs(t, store.IncrementSessionPageviews(ctx, "sess-missing"), domain.ErrSessionNotFound)
}

// =============================================================================
// Test: customers
// =============================================================================

func testCustomerLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and lookup are case insensitive", func(t *testing.T) {
		customer := &schema.Customer{
			ID:              "cust-lc-1",
			Email:           "Jane.Doe@Example.COM",
			FirstUTMSource:  strPtr("google"),
			Status:          string(domain.CustomerStatusLead),
			EmailCapturedAt: time.Now().UTC(),
		}
		require.NoError(t, store.CreateCustomer(ctx, customer))

		found, err := store.GetCustomerByEmail(ctx, "JANE.DOE@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "jane.doe@example.com", found.Email)
		assert.Equal(t, "google", *found.FirstUTMSource)
	})

	t.Run("update persists contact and merged fields", func(t *testing.T) {
		found, err := store.GetCustomerByEmail(ctx, "jane.doe@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)

		found.FirstName = strPtr("Jane")
		found.FirstUTMMedium = strPtr("cpc")
		require.NoError(t, store.UpdateCustomer(ctx, found))

		again, err := store.GetCustomerByEmail(ctx, "jane.doe@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane", *again.FirstName)
		assert.Equal(t, "cpc", *again.FirstUTMMedium)
	})

	t.Run("unknown email returns nil", func(t *testing.T) {
		found, err := store.GetCustomerByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

// =============================================================================
// Test: legacy lead/order pagination
// =============================================================================

// testLeadOrderPagination relies on the seed rows from db/pg_test_data.sql:
// five leads and four orders.
func testLeadOrderPagination(t *testing.T, store Store) {
	ctx := context.Background()

	var all []uint64
	offset := 0
	const pageSize = 2
	for {
		page, err := store.ListLeads(ctx, pageSize, offset)
		require.NoError(t, err)
		for _, lead := range page {
			all = append(all, lead.ID)
		}
		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}
	assert.Len(t, all, 5)
	assert.IsIncreasing(t, all)

	orders, err := store.ListOrders(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 4)
}

// RunStoreTests runs the full store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store Store)
	}{
		{"InsertVisitor", testInsertVisitor},
		{"UpdateVisitorLastTouch", testUpdateVisitorLastTouch},
		{"LinkVisitorToCustomer", testLinkVisitorToCustomer},
		{"InsertSession", testInsertSession},
		{"MarkSessionConverted", testMarkSessionConverted},
		{"IncrementPageviews", testIncrementPageviews},
		{"CustomerLifecycle", testCustomerLifecycle},
		{"LeadOrderPagination", testLeadOrderPagination},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tc.fn(t, store)
		})
	}
}
