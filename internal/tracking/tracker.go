package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/marketlens/attribution-engine/internal/adapter"
	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/logger"
	"github.com/marketlens/attribution-engine/internal/store"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

// Beacon is one inbound tracking event from the browser client. The
// client decides whether it is announcing a new visitor and/or a new
// session; the tracker's job is to make replays of either harmless.
type Beacon struct {
	VisitorID   string
	SessionID   string
	NewVisitor  bool
	NewSession  bool
	Attribution domain.Attribution
	AdClickData map[string]any
	Device      domain.Device
}

// Pageview is one page-load tick attributed to an existing session
type Pageview struct {
	VisitorID string
	SessionID string
}

// Tracker owns Visitor and Session writes. It is stateless; concurrency
// safety comes from the store's uniqueness constraints, not locks.
type Tracker struct {
	store store.Store
	clock adapter.Clock
}

// NewTracker creates a tracker backed by the given store
func NewTracker(s store.Store, clock adapter.Clock) *Tracker {
	return &Tracker{store: s, clock: clock}
}

// RecordBeacon processes a session beacon: creates or updates the visitor
// row and, for a new session, inserts the session row with its
// single-touch attribution snapshot.
//
// Duplicate-key conflicts on either insert are absorbed as success: the
// beacon protocol has no exactly-once guarantee, and a replayed "new
// visitor" beacon must never corrupt first-touch history. Visitor and
// session writes are independent, not transactional; a session failure
// does not roll back a committed visitor row.
func (t *Tracker) RecordBeacon(ctx context.Context, beacon Beacon) error {
	if beacon.VisitorID == "" || beacon.SessionID == "" {
		return fmt.Errorf("%w: visitorId and sessionId are required", domain.ErrInvalidInput)
	}

	now := t.clock.Now().UTC()

	var lastTouchErr error
	if beacon.NewVisitor {
		if err := t.insertVisitor(ctx, beacon, now); err != nil {
			return err
		}
	} else {
		lastTouchErr = t.updateLastTouch(ctx, beacon, now)
	}

	// The session write goes ahead even when the last-touch update failed;
	// the failure is still reported once the session is committed.
	if beacon.NewSession {
		if err := t.insertSession(ctx, beacon, now); err != nil {
			return err
		}
	}

	return lastTouchErr
}

// RecordPageview bumps the pageview counters for a session and its
// visitor. A missing session is absorbed with a warning; a pageview tick
// must never fail the page it rode in on.
func (t *Tracker) RecordPageview(ctx context.Context, pv Pageview) error {
	if pv.SessionID == "" {
		return fmt.Errorf("%w: sessionId is required", domain.ErrInvalidInput)
	}

	if err := t.store.IncrementSessionPageviews(ctx, pv.SessionID); err != nil {
		if err == domain.ErrSessionNotFound {
			logger.WarnCtx(ctx, "Pageview for unknown session",
				zap.String("session_id", pv.SessionID))
			return nil
		}
		return err
	}

	if pv.VisitorID != "" {
		if err := t.store.IncrementVisitorPageviews(ctx, pv.VisitorID); err != nil {
			logger.WarnCtx(ctx, "Failed to bump visitor pageviews",
				zap.Error(err),
				zap.String("visitor_id", pv.VisitorID))
		}
	}

	return nil
}

func (t *Tracker) insertVisitor(ctx context.Context, beacon Beacon, now time.Time) error {
	visitor := newVisitorRow(beacon, now)

	outcome, err := t.store.InsertVisitor(ctx, visitor)
	if err != nil {
		return fmt.Errorf("failed to insert visitor: %w", err)
	}
	if outcome == domain.AlreadyExists {
		// Replayed or concurrent "new visitor" beacon. The existing row
		// keeps its first-touch data; nothing to do.
		logger.DebugCtx(ctx, "Visitor already exists",
			zap.String("fingerprint", beacon.VisitorID))
	}
	return nil
}

// updateLastTouch refreshes a returning visitor's last-touch columns. An
// unknown fingerprint (zero rows) is logged and tolerated; a store failure
// is returned so the beacon reports it.
func (t *Tracker) updateLastTouch(ctx context.Context, beacon Beacon, now time.Time) error {
	rows, err := t.store.UpdateVisitorLastTouch(ctx, store.UpdateLastTouchInput{
		Fingerprint: beacon.VisitorID,
		Attribution: beacon.Attribution,
		SeenAt:      now,
		NewSession:  beacon.NewSession,
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("fingerprint", beacon.VisitorID))
		return fmt.Errorf("failed to update visitor last touch: %w", err)
	}
	if rows == 0 {
		logger.WarnCtx(ctx, "Returning-visitor beacon for unknown fingerprint",
			zap.String("fingerprint", beacon.VisitorID))
	}
	return nil
}

func (t *Tracker) insertSession(ctx context.Context, beacon Beacon, now time.Time) error {
	// Resolve the visitor's internal id from its fingerprint, falling
	// back to the raw beacon id so the session is never orphaned by a
	// failed lookup.
	visitorRef := beacon.VisitorID
	visitor, err := t.store.GetVisitorByFingerprint(ctx, beacon.VisitorID)
	if err != nil {
		logger.WarnCtx(ctx, "Visitor lookup failed, using raw id for session",
			zap.Error(err),
			zap.String("fingerprint", beacon.VisitorID))
	} else if visitor != nil {
		visitorRef = visitor.ID
	}

	session, err := newSessionRow(beacon, visitorRef, now)
	if err != nil {
		return err
	}

	outcome, err := t.store.InsertSession(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	if outcome == domain.AlreadyExists {
		logger.DebugCtx(ctx, "Session already exists",
			zap.String("session_id", beacon.SessionID))
	}
	return nil
}

// newVisitorRow builds the insert for a first-contact visitor: first_*
// and last_* both carry the beacon's attribution, and the counters start
// at one session.
func newVisitorRow(beacon Beacon, now time.Time) *schema.Visitor {
	a := beacon.Attribution
	return &schema.Visitor{
		ID:          ulid.MustNewDefault(now).String(),
		Fingerprint: beacon.VisitorID,

		FirstUTMSource:   nullable(a.Source),
		FirstUTMMedium:   nullable(a.Medium),
		FirstUTMCampaign: nullable(a.Campaign),
		FirstUTMTerm:     nullable(a.Term),
		FirstUTMContent:  nullable(a.Content),
		FirstLandingPage: nullable(a.LandingPage),
		FirstReferrer:    nullable(a.Referrer),
		FirstGCLID:       nullable(a.GCLID),
		FirstFBCLID:      nullable(a.FBCLID),

		LastUTMSource:   nullable(a.Source),
		LastUTMMedium:   nullable(a.Medium),
		LastUTMCampaign: nullable(a.Campaign),
		LastUTMTerm:     nullable(a.Term),
		LastUTMContent:  nullable(a.Content),
		LastLandingPage: nullable(a.LandingPage),
		LastReferrer:    nullable(a.Referrer),
		LastGCLID:       nullable(a.GCLID),
		LastFBCLID:      nullable(a.FBCLID),

		FirstSeenAt:  now,
		LastSeenAt:   now,
		SessionCount: 1,
	}
}

// newSessionRow builds the single-touch session snapshot, copying the
// beacon's attribution and device facts verbatim. Auxiliary ad-click
// parameters are filtered to non-empty string values before storage.
func newSessionRow(beacon Beacon, visitorRef string, now time.Time) (*schema.Session, error) {
	a := beacon.Attribution

	var clickData datatypes.JSON
	if filtered := domain.FilterClickParams(beacon.AdClickData); filtered != nil {
		raw, err := json.Marshal(filtered)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ad click data: %w", err)
		}
		clickData = datatypes.JSON(raw)
	}

	return &schema.Session{
		ID:        beacon.SessionID,
		VisitorID: visitorRef,

		UTMSource:   nullable(a.Source),
		UTMMedium:   nullable(a.Medium),
		UTMCampaign: nullable(a.Campaign),
		UTMTerm:     nullable(a.Term),
		UTMContent:  nullable(a.Content),
		LandingPage: nullable(a.LandingPage),
		Referrer:    nullable(a.Referrer),
		GCLID:       nullable(a.GCLID),
		FBCLID:      nullable(a.FBCLID),

		AdClickData: clickData,

		DeviceType: nullable(beacon.Device.Type),
		Browser:    nullable(beacon.Device.Browser),
		OS:         nullable(beacon.Device.OS),

		StartedAt: now,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
