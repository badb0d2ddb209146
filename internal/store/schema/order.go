package schema

import (
	"time"
)

// Order represents the legacy orders table, read-only input to the audit
// engine for revenue correlation.
type Order struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Email used at checkout; correlated case-insensitively against leads
	Email string `gorm:"column:email;not null;type:text;index"`
	// Total is the order total in the store currency's minor units
	Total     int64     `gorm:"column:total;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
