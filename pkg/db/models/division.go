package models

import (
	"time"

	"github.com/google/uuid"
)

// Division is a competitive tier. PerformanceTime is the slot length in
// minutes for bands in this division; nil falls back to the engine default.
type Division struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	PerformanceTime *int      `gorm:"column:performance_time"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
