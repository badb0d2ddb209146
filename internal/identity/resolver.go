package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketlens/attribution-engine/internal/adapter"
	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/logger"
	"github.com/marketlens/attribution-engine/internal/store"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

// Identification is an inbound email-capture event tying an anonymous
// visitor to a customer identity.
type Identification struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	VisitorID string
	SessionID string
}

// Result reports the customer the identification resolved to
type Result struct {
	CustomerID    string
	IsNewCustomer bool
}

// Resolver performs identity resolution: it upserts the customer keyed
// by normalized email, stamps the visitor's first-touch attribution onto
// the customer where the customer has none, and links the visitor and
// session to the resolved identity.
type Resolver struct {
	store store.Store
	clock adapter.Clock
}

// NewResolver creates a resolver backed by the given store
func NewResolver(s store.Store, clock adapter.Clock) *Resolver {
	return &Resolver{store: s, clock: clock}
}

// Identify resolves an email capture to a customer row.
//
// Customer reads and writes are fatal on error; the visitor link and the
// session conversion mark are best-effort bookkeeping and only log. The
// customer row is the durable outcome, everything else can be rebuilt.
func (r *Resolver) Identify(ctx context.Context, ident Identification) (*Result, error) {
	if ident.VisitorID == "" {
		return nil, fmt.Errorf("%w: visitorId is required", domain.ErrInvalidInput)
	}
	email := domain.NormalizeEmail(ident.Email)
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}

	now := r.clock.Now().UTC()

	// Identify requires a prior session beacon; an unknown fingerprint is
	// a protocol violation, not a race to tolerate.
	visitor, err := r.store.GetVisitorByFingerprint(ctx, ident.VisitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if visitor == nil {
		return nil, domain.ErrVisitorNotFound
	}

	customer, err := r.store.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	isNew := customer == nil
	if isNew {
		customer = &schema.Customer{
			ID:              uuid.New().String(),
			Email:           email,
			Status:          string(domain.CustomerStatusLead),
			EmailCapturedAt: now,
		}
		applyContact(customer, ident)
		MergeFirstTouch(customer, visitor)
		if err := r.store.CreateCustomer(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
	} else {
		applyContact(customer, ident)
		MergeFirstTouch(customer, visitor)
		if err := r.store.UpdateCustomer(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	r.linkVisitor(ctx, visitor, customer.ID)
	r.markConversion(ctx, ident.SessionID, now)

	return &Result{CustomerID: customer.ID, IsNewCustomer: isNew}, nil
}

// MergeFirstTouch fills each nil first-touch field on the customer from
// the visitor's first-touch data. Fields the customer already has are
// never overwritten; a nil visitor leaves the customer unchanged.
func MergeFirstTouch(customer *schema.Customer, visitor *schema.Visitor) {
	if visitor == nil {
		return
	}

	merge := func(dst **string, src *string) {
		if *dst == nil && src != nil {
			*dst = src
		}
	}

	merge(&customer.FirstUTMSource, visitor.FirstUTMSource)
	merge(&customer.FirstUTMMedium, visitor.FirstUTMMedium)
	merge(&customer.FirstUTMCampaign, visitor.FirstUTMCampaign)
	merge(&customer.FirstUTMTerm, visitor.FirstUTMTerm)
	merge(&customer.FirstUTMContent, visitor.FirstUTMContent)
	merge(&customer.FirstLandingPage, visitor.FirstLandingPage)
	merge(&customer.FirstReferrer, visitor.FirstReferrer)
	merge(&customer.FirstGCLID, visitor.FirstGCLID)
	merge(&customer.FirstFBCLID, visitor.FirstFBCLID)
}

// applyContact copies non-empty contact fields from the identification
// onto the customer. Provided values win over stored ones; an identify
// form is fresher than whatever we had.
func applyContact(customer *schema.Customer, ident Identification) {
	if ident.FirstName != "" {
		customer.FirstName = &ident.FirstName
	}
	if ident.LastName != "" {
		customer.LastName = &ident.LastName
	}
	if ident.Phone != "" {
		customer.Phone = &ident.Phone
	}
}

func (r *Resolver) linkVisitor(ctx context.Context, visitor *schema.Visitor, customerID string) {
	if err := r.store.LinkVisitorToCustomer(ctx, visitor.ID, customerID); err != nil {
		logger.WarnCtx(ctx, "Failed to link visitor to customer",
			zap.Error(err),
			zap.String("visitor_id", visitor.ID),
			zap.String("customer_id", customerID))
	}
}

func (r *Resolver) markConversion(ctx context.Context, sessionID string, at time.Time) {
	if sessionID == "" {
		return
	}
	if err := r.store.MarkSessionConverted(ctx, sessionID, domain.ConversionTypeEmail, at); err != nil {
		logger.WarnCtx(ctx, "Failed to mark session converted",
			zap.Error(err),
			zap.String("session_id", sessionID))
	}
}
