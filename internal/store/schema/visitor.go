package schema

import (
	"time"
)

// Visitor represents the visitors table - one row per distinct
// tracking-cookie fingerprint.
//
// The first_* columns are the first-touch attribution snapshot: written
// exactly once at insert and never updated afterwards. The last_* columns
// mirror them and are overwritten on every subsequent session.
type Visitor struct {
	// ID is the internal visitor identifier (ULID, generated server-side)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Fingerprint is the stable client-generated identifier for one
	// browser/device, the visitor's natural key
	Fingerprint string `gorm:"column:fingerprint;not null;uniqueIndex;type:text"`

	FirstUTMSource   *string `gorm:"column:first_utm_source;type:text"`
	FirstUTMMedium   *string `gorm:"column:first_utm_medium;type:text"`
	FirstUTMCampaign *string `gorm:"column:first_utm_campaign;type:text"`
	FirstUTMTerm     *string `gorm:"column:first_utm_term;type:text"`
	FirstUTMContent  *string `gorm:"column:first_utm_content;type:text"`
	FirstLandingPage *string `gorm:"column:first_landing_page;type:text"`
	FirstReferrer    *string `gorm:"column:first_referrer;type:text"`
	FirstGCLID       *string `gorm:"column:first_gclid;type:text"`
	FirstFBCLID      *string `gorm:"column:first_fbclid;type:text"`

	LastUTMSource   *string `gorm:"column:last_utm_source;type:text"`
	LastUTMMedium   *string `gorm:"column:last_utm_medium;type:text"`
	LastUTMCampaign *string `gorm:"column:last_utm_campaign;type:text"`
	LastUTMTerm     *string `gorm:"column:last_utm_term;type:text"`
	LastUTMContent  *string `gorm:"column:last_utm_content;type:text"`
	LastLandingPage *string `gorm:"column:last_landing_page;type:text"`
	LastReferrer    *string `gorm:"column:last_referrer;type:text"`
	LastGCLID       *string `gorm:"column:last_gclid;type:text"`
	LastFBCLID      *string `gorm:"column:last_fbclid;type:text"`

	// FirstSeenAt is immutable after insert
	FirstSeenAt time.Time `gorm:"column:first_seen_at;not null;default:now();type:timestamptz"`
	// LastSeenAt is updated on every session
	LastSeenAt time.Time `gorm:"column:last_seen_at;not null;default:now();type:timestamptz"`
	// SessionCount is the number of distinct browsing sessions observed
	SessionCount int `gorm:"column:session_count;not null;default:1"`
	// TotalPageviews is the lifetime pageview count across all sessions
	TotalPageviews int `gorm:"column:total_pageviews;not null;default:0"`

	// CustomerID is a weak back-reference set once identity resolution
	// succeeds; nil while the visitor is anonymous
	CustomerID *string `gorm:"column:customer_id;type:text;index"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Visitor model
func (Visitor) TableName() string {
	return "visitors"
}
