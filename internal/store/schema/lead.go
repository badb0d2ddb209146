package schema

import (
	"time"
)

// Lead represents the legacy leads table. The audit engine reads it as
// append-only historical fact and never mutates it. UTM parameters from
// the legacy capture era live inside the raw SourceURL, not in
// structured columns.
type Lead struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Email as captured at the time; case is not normalized in legacy data
	Email string `gorm:"column:email;not null;type:text;index"`
	// GCLID is the Google Ads click identifier recorded at capture, if any
	GCLID *string `gorm:"column:gclid;type:text"`
	// FBCLID is the Meta click identifier recorded at capture, if any
	FBCLID *string `gorm:"column:fbclid;type:text"`
	// SourceURL is the raw landing URL including its query string
	SourceURL *string   `gorm:"column:source_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Lead model
func (Lead) TableName() string {
	return "leads"
}
