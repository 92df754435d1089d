package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fee is a monetary charge. A registration may reference up to two fees
// (registration fee, withdrawal fee); either may be absent.
type Fee struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	IsPaid        bool            `gorm:"column:is_paid;not null;default:false"`
	PaymentTypeID *uuid.UUID      `gorm:"column:payment_type_id;type:uuid"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PaymentType describes how a fee was settled (cash, transfer, ...).
type PaymentType struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Description string    `gorm:"column:description;not null"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
