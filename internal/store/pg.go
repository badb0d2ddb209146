package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	// database/sql treats MaxIdleConns > MaxOpenConns as MaxOpenConns anyway
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// InsertVisitor inserts a visitor row keyed by fingerprint.
// Concurrent "new visitor" beacons for the same fingerprint are expected to
// race; ON CONFLICT DO NOTHING makes the loser a no-op and the existing
// first-touch data is never overwritten.
func (s *pgStore) InsertVisitor(ctx context.Context, visitor *schema.Visitor) (domain.InsertOutcome, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoNothing: true,
	}).Create(visitor)
	if result.Error != nil {
		return domain.Inserted, fmt.Errorf("failed to insert visitor: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.AlreadyExists, nil
	}
	return domain.Inserted, nil
}

// GetVisitorByFingerprint retrieves a visitor by its natural key
func (s *pgStore) GetVisitorByFingerprint(ctx context.Context, fingerprint string) (*schema.Visitor, error) {
	var visitor schema.Visitor
	err := s.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&visitor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get visitor: %w", err)
	}
	return &visitor, nil
}

// UpdateVisitorLastTouch overwrites the last_* attribution columns and
// last_seen_at on the visitor matched by fingerprint. First-touch columns
// are not part of the update set by construction.
func (s *pgStore) UpdateVisitorLastTouch(ctx context.Context, input UpdateLastTouchInput) (int64, error) {
	updates := map[string]any{
		"last_utm_source":   nullable(input.Attribution.Source),
		"last_utm_medium":   nullable(input.Attribution.Medium),
		"last_utm_campaign": nullable(input.Attribution.Campaign),
		"last_utm_term":     nullable(input.Attribution.Term),
		"last_utm_content":  nullable(input.Attribution.Content),
		"last_landing_page": nullable(input.Attribution.LandingPage),
		"last_referrer":     nullable(input.Attribution.Referrer),
		"last_gclid":        nullable(input.Attribution.GCLID),
		"last_fbclid":       nullable(input.Attribution.FBCLID),
		"last_seen_at":      input.SeenAt,
	}
	if input.NewSession {
		updates["session_count"] = gorm.Expr("session_count + 1")
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Visitor{}).
		Where("fingerprint = ?", input.Fingerprint).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update visitor last touch: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// LinkVisitorToCustomer sets the visitor's weak customer reference
func (s *pgStore) LinkVisitorToCustomer(ctx context.Context, visitorID, customerID string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Visitor{}).
		Where("id = ?", visitorID).
		Update("customer_id", customerID).Error
	if err != nil {
		return fmt.Errorf("failed to link visitor to customer: %w", err)
	}
	return nil
}

// IncrementVisitorPageviews bumps total_pageviews for the visitor matched
// by fingerprint
func (s *pgStore) IncrementVisitorPageviews(ctx context.Context, fingerprint string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Visitor{}).
		Where("fingerprint = ?", fingerprint).
		Update("total_pageviews", gorm.Expr("total_pageviews + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment visitor pageviews: %w", err)
	}
	return nil
}

// InsertSession inserts a session row keyed by the client session id.
// A replayed beacon conflicts on the primary key and is absorbed.
func (s *pgStore) InsertSession(ctx context.Context, session *schema.Session) (domain.InsertOutcome, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(session)
	if result.Error != nil {
		return domain.Inserted, fmt.Errorf("failed to insert session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.AlreadyExists, nil
	}
	return domain.Inserted, nil
}

// GetSessionByID retrieves a session row
func (s *pgStore) GetSessionByID(ctx context.Context, id string) (*schema.Session, error) {
	var session schema.Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// MarkSessionConverted flips the conversion flags on a session
func (s *pgStore) MarkSessionConverted(ctx context.Context, sessionID string, conversionType domain.ConversionType, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"converted":       true,
			"conversion_type": string(conversionType),
			"converted_at":    at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark session converted: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// IncrementSessionPageviews bumps pageview_count on a session
func (s *pgStore) IncrementSessionPageviews(ctx context.Context, sessionID string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Session{}).
		Where("id = ?", sessionID).
		Update("pageview_count", gorm.Expr("pageview_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment session pageviews: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// GetCustomerByEmail retrieves a customer by normalized email
func (s *pgStore) GetCustomerByEmail(ctx context.Context, email string) (*schema.Customer, error) {
	var customer schema.Customer
	err := s.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// CreateCustomer inserts a new customer row. Email uniqueness is the
// natural idempotency key here; a conflict surfaces as an error because
// the resolver's find-or-create branch should have taken the update path.
func (s *pgStore) CreateCustomer(ctx context.Context, customer *schema.Customer) error {
	customer.Email = domain.NormalizeEmail(customer.Email)
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// UpdateCustomer persists contact and merged first-touch fields
func (s *pgStore) UpdateCustomer(ctx context.Context, customer *schema.Customer) error {
	customer.Email = domain.NormalizeEmail(customer.Email)
	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// ListLeads returns one page of the legacy leads table ordered by id
func (s *pgStore) ListLeads(ctx context.Context, limit, offset int) ([]*schema.Lead, error) {
	var leads []*schema.Lead
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// ListOrders returns one page of the legacy orders table ordered by id
func (s *pgStore) ListOrders(ctx context.Context, limit, offset int) ([]*schema.Order, error) {
	var orders []*schema.Order
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// nullable maps an empty string to a SQL NULL so untouched attribution
// fields stay distinguishable from captured-but-empty ones
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
