package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single competition instance within a season.
type Event struct {
	ID                       uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                     string     `gorm:"column:name;not null"`
	Start                    time.Time  `gorm:"column:start;not null;index"`
	End                      time.Time  `gorm:"column:end;not null"`
	SeasonID                 uuid.UUID  `gorm:"column:season_id;type:uuid;not null;index"`
	EventTypeID              uuid.UUID  `gorm:"column:event_type_id;type:uuid;not null;index"`
	EntryCutoffDate          time.Time  `gorm:"column:entry_cutoff_date;not null"`
	FreeWithdrawalCutoffDate time.Time  `gorm:"column:free_withdrawal_cutoff_date;not null"`
	AllowLateEntry           bool       `gorm:"column:allow_late_entry;not null;default:false"`
	ScoresReleased           bool       `gorm:"column:scores_released;not null;default:false"`
	Season                   *Season    `gorm:"foreignKey:SeasonID"`
	EventType                *EventType `gorm:"foreignKey:EventTypeID"`
	CreatedAt                time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
