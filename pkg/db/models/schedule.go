package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bybauk/byba-backend/pkg/enums"
)

// ScheduleGeneration records the configuration the schedule of an event was
// last generated from. One row per event, replaced wholesale on every
// regeneration. Epoch increments each rebuild so consumers can detect stale
// schedule rows; Manual stops automatic regeneration and preserves hand edits.
type ScheduleGeneration struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     uuid.UUID               `gorm:"column:event_id;type:uuid;not null;unique"`
	OrderType   enums.ScheduleOrderType `gorm:"column:order_type;type:text;not null"`
	StartTime   string                  `gorm:"column:start_time;not null"`
	AddBreaks   bool                    `gorm:"column:add_breaks;not null;default:false"`
	BreakType   enums.BreakType         `gorm:"column:break_type;type:text;not null;default:'band'"`
	BreakNum    int                     `gorm:"column:break_num;not null;default:0"`
	BreakLength int                     `gorm:"column:break_length;not null;default:0"`
	LateOnFirst bool                    `gorm:"column:late_on_first;not null;default:false"`
	Manual      bool                    `gorm:"column:manual;not null;default:false"`
	Epoch       int                     `gorm:"column:epoch;not null;default:1"`
	Divisions   []ScheduleDivision      `gorm:"foreignKey:ScheduleGenerationID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// ScheduleDivision fixes the position of one division within a generated
// schedule. A nil DivisionID is the "no division" bucket.
type ScheduleDivision struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ScheduleGenerationID uuid.UUID  `gorm:"column:schedule_generation_id;type:uuid;not null;index"`
	DivisionID           *uuid.UUID `gorm:"column:division_id;type:uuid"`
	Position             int        `gorm:"column:position;not null"`
}

// EventSchedule is one timed slot of an event's timetable. The full set is
// destroyed and rebuilt on every generation; Epoch ties a row to the
// generation that produced it.
type EventSchedule struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     uuid.UUID `gorm:"column:event_id;type:uuid;not null;index"`
	Start       time.Time `gorm:"column:start;not null"`
	Description string    `gorm:"column:description;not null"`
	Duration    int       `gorm:"column:duration;not null"`
	Epoch       int       `gorm:"column:epoch;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
