package audit

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/marketlens/attribution-engine/internal/adapter"
	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/logger"
	"github.com/marketlens/attribution-engine/internal/store"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

const (
	defaultPageSize = 500
	sampleURLLimit  = 10
	topReferrerN    = 20
)

// LeadStats summarizes attribution coverage across the legacy leads table
type LeadStats struct {
	Total           int `json:"total"`
	WithGclid       int `json:"withGclid"`
	WithFbclid      int `json:"withFbclid"`
	WithClickID     int `json:"withClickId"`
	WithSourceURL   int `json:"withSourceUrl"`
	WithUTMSource   int `json:"withUtmSource"`
	WithUTMMedium   int `json:"withUtmMedium"`
	WithUTMCampaign int `json:"withUtmCampaign"`
}

// OrderStats correlates legacy orders against the lead email sets. Revenue
// figures are in the store currency's minor units.
type OrderStats struct {
	Total           int `json:"total"`
	FromLeads       int `json:"fromLeads"`
	FromGclidLeads  int `json:"fromGclidLeads"`
	FromFbclidLeads int `json:"fromFbclidLeads"`
	Direct          int `json:"direct"`

	Revenue           int64 `json:"revenue"`
	RevenueFromLeads  int64 `json:"revenueFromLeads"`
	RevenueFromGclid  int64 `json:"revenueFromGclid"`
	RevenueFromFbclid int64 `json:"revenueFromFbclid"`
	RevenueDirect     int64 `json:"revenueDirect"`
}

// ReferrerCount is one ranked bucket of the merged referrer histogram.
// Keys carry their origin tag: "ref:" for referrer query parameters,
// "utm:" for utm_source values.
type ReferrerCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Report is the point-in-time audit document. Numbers are as of scan
// start under read-committed visibility, not a frozen snapshot.
type Report struct {
	Leads        LeadStats       `json:"leads"`
	Orders       OrderStats      `json:"orders"`
	TopReferrers []ReferrerCount `json:"topReferrers"`
	SampleURLs   []string        `json:"sampleUrls"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}

// Engine computes the attribution audit report. It is a pure reducer
// over committed history: it never writes, and re-running it over the
// same table contents yields the same report.
type Engine struct {
	store    store.Store
	clock    adapter.Clock
	pageSize int
}

// NewEngine creates an audit engine. A non-positive pageSize falls back
// to the default.
func NewEngine(s store.Store, clock adapter.Clock, pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Engine{store: s, clock: clock, pageSize: pageSize}
}

// leadSets are the materialized semi-join sides: lead emails (lowercase)
// partitioned by click-identifier presence.
type leadSets struct {
	all    map[string]struct{}
	gclid  map[string]struct{}
	fbclid map[string]struct{}
}

// Run executes the full audit: two concurrent lead scans (coverage stats
// plus email sets, and the referrer histogram), then a streaming order
// scan joined against the materialized sets.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := e.clock.Now().UTC()
	logger.InfoCtx(ctx, "Starting attribution audit", zap.Int("page_size", e.pageSize))

	var (
		stats     LeadStats
		sets      leadSets
		samples   []string
		referrers []ReferrerCount
	)

	// The two lead scans are independent reductions over the same table;
	// run them side by side.
	pool := pond.NewPool(2, pond.WithContext(ctx))
	statsTask := pool.SubmitErr(func() error {
		var err error
		stats, sets, samples, err = e.scanLeadStats(ctx)
		return err
	})
	referrerTask := pool.SubmitErr(func() error {
		var err error
		referrers, err = e.scanReferrers(ctx)
		return err
	})
	if err := statsTask.Wait(); err != nil {
		return nil, fmt.Errorf("failed to scan lead stats: %w", err)
	}
	if err := referrerTask.Wait(); err != nil {
		return nil, fmt.Errorf("failed to scan referrers: %w", err)
	}
	pool.StopAndWait()

	orders, err := e.scanOrders(ctx, sets)
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	logger.InfoCtx(ctx, "Attribution audit finished",
		zap.Int("leads", stats.Total),
		zap.Int("orders", orders.Total),
		zap.Duration("elapsed", e.clock.Since(start)))

	return &Report{
		Leads:        stats,
		Orders:       orders,
		TopReferrers: referrers,
		SampleURLs:   samples,
		GeneratedAt:  start,
	}, nil
}

// scanLeadStats walks the leads table once, accumulating coverage
// counters, the email semi-join sets, and up to ten sample URLs.
//
// UTM presence is tested by substring match on the raw URL: legacy
// capture stored UTM inside the query string, not structured columns,
// and substring matching still counts URLs too malformed to parse.
func (e *Engine) scanLeadStats(ctx context.Context) (LeadStats, leadSets, []string, error) {
	stats := LeadStats{}
	sets := leadSets{
		all:    make(map[string]struct{}),
		gclid:  make(map[string]struct{}),
		fbclid: make(map[string]struct{}),
	}
	var samples []string

	err := e.eachLeadPage(ctx, func(leads []*schema.Lead) {
		for _, lead := range leads {
			stats.Total++

			email := domain.NormalizeEmail(lead.Email)
			if email != "" {
				sets.all[email] = struct{}{}
			}

			hasGclid := lead.GCLID != nil && *lead.GCLID != ""
			hasFbclid := lead.FBCLID != nil && *lead.FBCLID != ""
			if hasGclid {
				stats.WithGclid++
				if email != "" {
					sets.gclid[email] = struct{}{}
				}
			}
			if hasFbclid {
				stats.WithFbclid++
				if email != "" {
					sets.fbclid[email] = struct{}{}
				}
			}
			if hasGclid || hasFbclid {
				stats.WithClickID++
			}

			if lead.SourceURL == nil || *lead.SourceURL == "" {
				continue
			}
			rawURL := *lead.SourceURL
			stats.WithSourceURL++
			if strings.Contains(rawURL, "utm_source=") {
				stats.WithUTMSource++
			}
			if strings.Contains(rawURL, "utm_medium=") {
				stats.WithUTMMedium++
			}
			if strings.Contains(rawURL, "utm_campaign=") {
				stats.WithUTMCampaign++
			}
			if len(samples) < sampleURLLimit {
				samples = append(samples, rawURL)
			}
		}
	})
	if err != nil {
		return LeadStats{}, leadSets{}, nil, err
	}
	return stats, sets, samples, nil
}

// scanReferrers walks the leads table once building the ranked referrer
// histogram. URLs that fail to parse are skipped, never fatal.
func (e *Engine) scanReferrers(ctx context.Context) ([]ReferrerCount, error) {
	counts := make(map[string]int)

	err := e.eachLeadPage(ctx, func(leads []*schema.Lead) {
		for _, lead := range leads {
			if lead.SourceURL == nil || *lead.SourceURL == "" {
				continue
			}
			parsed, err := url.Parse(*lead.SourceURL)
			if err != nil {
				continue
			}
			query := parsed.Query()

			ref := query.Get("ref")
			if ref == "" {
				ref = query.Get("referrer")
			}
			if ref != "" {
				counts["ref:"+ref]++
			}
			if source := query.Get("utm_source"); source != "" {
				counts["utm:"+source]++
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return rankReferrers(counts, topReferrerN), nil
}

// scanOrders streams the orders table against the materialized lead
// sets: one pass, O(1) membership tests per order.
func (e *Engine) scanOrders(ctx context.Context, sets leadSets) (OrderStats, error) {
	stats := OrderStats{}

	offset := 0
	for {
		page, err := e.store.ListOrders(ctx, e.pageSize, offset)
		if err != nil {
			return OrderStats{}, err
		}
		for _, order := range page {
			stats.Total++
			stats.Revenue += order.Total

			email := domain.NormalizeEmail(order.Email)
			if _, ok := sets.all[email]; !ok {
				stats.Direct++
				stats.RevenueDirect += order.Total
				continue
			}
			stats.FromLeads++
			stats.RevenueFromLeads += order.Total
			if _, ok := sets.gclid[email]; ok {
				stats.FromGclidLeads++
				stats.RevenueFromGclid += order.Total
			}
			if _, ok := sets.fbclid[email]; ok {
				stats.FromFbclidLeads++
				stats.RevenueFromFbclid += order.Total
			}
		}
		if len(page) < e.pageSize {
			return stats, nil
		}
		offset += e.pageSize
	}
}

// eachLeadPage pages through the leads table, invoking fn per page, and
// stops on the first short page.
func (e *Engine) eachLeadPage(ctx context.Context, fn func([]*schema.Lead)) error {
	offset := 0
	for {
		page, err := e.store.ListLeads(ctx, e.pageSize, offset)
		if err != nil {
			return err
		}
		fn(page)
		if len(page) < e.pageSize {
			return nil
		}
		offset += e.pageSize
	}
}

// rankReferrers sorts the merged histogram descending by count, ties
// broken by key ascending so output is deterministic, truncated to n.
func rankReferrers(counts map[string]int, n int) []ReferrerCount {
	ranked := make([]ReferrerCount, 0, len(counts))
	for key, count := range counts {
		ranked = append(ranked, ReferrerCount{Key: key, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
