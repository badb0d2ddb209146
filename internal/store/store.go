package store

import (
	"context"
	"time"

	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

// UpdateLastTouchInput carries the returning-visitor update: the last_*
// attribution snapshot plus lifecycle bookkeeping. First-touch columns are
// deliberately absent; nothing in the store can overwrite them.
type UpdateLastTouchInput struct {
	Fingerprint string
	Attribution domain.Attribution
	SeenAt      time.Time
	// NewSession bumps session_count alongside the last-touch overwrite
	NewSession bool
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks
type Store interface {
	// InsertVisitor inserts a visitor row keyed by fingerprint. A
	// duplicate-key conflict is reported as AlreadyExists, not an error,
	// and leaves the existing row untouched.
	InsertVisitor(ctx context.Context, visitor *schema.Visitor) (domain.InsertOutcome, error)
	// GetVisitorByFingerprint retrieves a visitor by its natural key.
	// Returns (nil, nil) when no row exists.
	GetVisitorByFingerprint(ctx context.Context, fingerprint string) (*schema.Visitor, error)
	// UpdateVisitorLastTouch overwrites the last_* columns and last_seen_at
	// for the visitor matched by fingerprint. Returns the number of rows
	// matched so callers can log (not fail) a missing visitor.
	UpdateVisitorLastTouch(ctx context.Context, input UpdateLastTouchInput) (int64, error)
	// LinkVisitorToCustomer sets the visitor's weak customer reference.
	// Setting it repeatedly to the same value is safe.
	LinkVisitorToCustomer(ctx context.Context, visitorID, customerID string) error
	// IncrementVisitorPageviews bumps total_pageviews for the visitor
	// matched by fingerprint
	IncrementVisitorPageviews(ctx context.Context, fingerprint string) error

	// InsertSession inserts a session row keyed by the client-supplied
	// session id. A duplicate-key conflict (beacon replay) is reported as
	// AlreadyExists, not an error.
	InsertSession(ctx context.Context, session *schema.Session) (domain.InsertOutcome, error)
	// GetSessionByID retrieves a session row. Returns (nil, nil) when no
	// row exists.
	GetSessionByID(ctx context.Context, id string) (*schema.Session, error)
	// MarkSessionConverted flips the conversion flags on a session.
	// Returns domain.ErrSessionNotFound when the id matches no row.
	MarkSessionConverted(ctx context.Context, sessionID string, conversionType domain.ConversionType, at time.Time) error
	// IncrementSessionPageviews bumps pageview_count. Returns
	// domain.ErrSessionNotFound when the id matches no row.
	IncrementSessionPageviews(ctx context.Context, sessionID string) error

	// GetCustomerByEmail retrieves a customer by normalized email.
	// Returns (nil, nil) when no row exists.
	GetCustomerByEmail(ctx context.Context, email string) (*schema.Customer, error)
	// CreateCustomer inserts a new customer row
	CreateCustomer(ctx context.Context, customer *schema.Customer) error
	// UpdateCustomer persists contact and merged first-touch fields
	UpdateCustomer(ctx context.Context, customer *schema.Customer) error

	// ListLeads returns one page of the legacy leads table ordered by id
	ListLeads(ctx context.Context, limit, offset int) ([]*schema.Lead, error)
	// ListOrders returns one page of the legacy orders table ordered by id
	ListOrders(ctx context.Context, limit, offset int) ([]*schema.Order, error)
}
