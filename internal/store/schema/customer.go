package schema

import (
	"time"
)

// Customer represents the customers table - one row per distinct email
// address. Email is normalized to lowercase before any read or write.
//
// The first_* attribution columns follow merge-if-absent semantics: each
// field is write-once, filled from a visitor's first-touch data only
// while it is still null. See identity.MergeFirstTouch.
type Customer struct {
	// ID is the internal customer identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Email is the case-insensitive identity key, stored lowercase
	Email string `gorm:"column:email;not null;uniqueIndex;type:text"`

	FirstName *string `gorm:"column:first_name;type:text"`
	LastName  *string `gorm:"column:last_name;type:text"`
	Phone     *string `gorm:"column:phone;type:text"`

	FirstUTMSource   *string `gorm:"column:first_utm_source;type:text"`
	FirstUTMMedium   *string `gorm:"column:first_utm_medium;type:text"`
	FirstUTMCampaign *string `gorm:"column:first_utm_campaign;type:text"`
	FirstUTMTerm     *string `gorm:"column:first_utm_term;type:text"`
	FirstUTMContent  *string `gorm:"column:first_utm_content;type:text"`
	FirstLandingPage *string `gorm:"column:first_landing_page;type:text"`
	FirstReferrer    *string `gorm:"column:first_referrer;type:text"`
	FirstGCLID       *string `gorm:"column:first_gclid;type:text"`
	FirstFBCLID      *string `gorm:"column:first_fbclid;type:text"`

	// Status is the lifecycle stage, "lead" on creation
	Status string `gorm:"column:status;not null;default:'lead';type:text"`
	// EmailCapturedAt records when the email was first identified
	EmailCapturedAt time.Time `gorm:"column:email_captured_at;not null;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
