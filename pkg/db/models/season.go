package models

import (
	"time"

	"github.com/google/uuid"
)

// Season bounds one competitive year. Seasons must not overlap.
type Season struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Identifier string    `gorm:"column:identifier;not null;unique"`
	Start      time.Time `gorm:"column:start;not null"`
	End        time.Time `gorm:"column:end;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
