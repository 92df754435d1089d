package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType is a category of competition carrying the base entry cost and the
// progressive discount schedule applied to repeat entries within a season.
type EventType struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string              `gorm:"column:name;not null"`
	EntryCost decimal.Decimal     `gorm:"column:entry_cost;type:numeric(10,2);not null"`
	IsActive  bool                `gorm:"column:is_active;not null;default:true"`
	Discounts []EventTypeDiscount `gorm:"foreignKey:EventTypeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EventTypeDiscount is one tier of the discount schedule. Tiers are kept
// non-overlapping and are always read in ascending DiscountAfter order.
type EventTypeDiscount struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventTypeID        uuid.UUID       `gorm:"column:event_type_id;type:uuid;not null;index"`
	DiscountAfter      int             `gorm:"column:discount_after;not null"`
	DiscountMultiplier decimal.Decimal `gorm:"column:discount_multiplier;type:numeric(6,4);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}
