package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Session represents the sessions table - one row per browsing session.
//
// A session is immutable attribution-wise after creation; only the
// activity and conversion columns may change.
type Session struct {
	// ID is the client-supplied session identifier (primary key by design:
	// session id replays must collide, not duplicate)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// VisitorID references the owning visitor's internal id. When the
	// visitor row could not be resolved at write time this holds the raw
	// beacon visitor id as a fallback reference.
	VisitorID string `gorm:"column:visitor_id;not null;type:text;index"`

	UTMSource   *string `gorm:"column:utm_source;type:text"`
	UTMMedium   *string `gorm:"column:utm_medium;type:text"`
	UTMCampaign *string `gorm:"column:utm_campaign;type:text"`
	UTMTerm     *string `gorm:"column:utm_term;type:text"`
	UTMContent  *string `gorm:"column:utm_content;type:text"`
	LandingPage *string `gorm:"column:landing_page;type:text"`
	Referrer    *string `gorm:"column:referrer;type:text"`
	GCLID       *string `gorm:"column:gclid;type:text"`
	FBCLID      *string `gorm:"column:fbclid;type:text"`

	// AdClickData is an open-ended map of auxiliary ad-click parameters,
	// filtered to non-empty string values before storage
	AdClickData datatypes.JSON `gorm:"column:ad_click_data;type:jsonb"`

	// Device facts, informational only
	DeviceType *string `gorm:"column:device_type;type:text"`
	Browser    *string `gorm:"column:browser;type:text"`
	OS         *string `gorm:"column:os;type:text"`

	// PageviewCount is incremented by the pageview endpoint
	PageviewCount int `gorm:"column:pageview_count;not null;default:0"`
	// Converted flips to true when an identify call names this session
	Converted      bool       `gorm:"column:converted;not null;default:false"`
	ConversionType *string    `gorm:"column:conversion_type;type:text"`
	ConvertedAt    *time.Time `gorm:"column:converted_at;type:timestamptz"`

	StartedAt time.Time `gorm:"column:started_at;not null;default:now();type:timestamptz"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}
