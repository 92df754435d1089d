package models

import (
	"time"

	"github.com/google/uuid"
)

// EventRegistration is the entry of one organisation into one event. At most
// one registration exists per (event, organisation) pair and rows are never
// hard-deleted; withdrawal is a flag toggled by the state machine.
type EventRegistration struct {
	ID                uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID           uuid.UUID     `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_registrations_event_org"`
	OrganisationID    uuid.UUID     `gorm:"column:organisation_id;type:uuid;not null;uniqueIndex:idx_event_registrations_event_org"`
	DivisionID        *uuid.UUID    `gorm:"column:division_id;type:uuid"`
	EntryDate         time.Time     `gorm:"column:entry_date;not null"`
	Withdrawn         bool          `gorm:"column:withdrawn;not null;default:false"`
	RegistrationFeeID *uuid.UUID    `gorm:"column:registration_fee_id;type:uuid"`
	WithdrawalFeeID   *uuid.UUID    `gorm:"column:withdrawal_fee_id;type:uuid"`
	Event             *Event        `gorm:"foreignKey:EventID"`
	Organisation      *Organisation `gorm:"foreignKey:OrganisationID"`
	Division          *Division     `gorm:"foreignKey:DivisionID"`
	RegistrationFee   *Fee          `gorm:"foreignKey:RegistrationFeeID"`
	WithdrawalFee     *Fee          `gorm:"foreignKey:WithdrawalFeeID"`
	CreatedAt         time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
