package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
)

// ServiceParams groups dependencies for the event service.
type ServiceParams struct {
	Repo Repository
}

// Service manages event configuration: the dates and flags the entry fee and
// scheduling rules read.
type Service struct {
	repo Repository
}

// NewService builds an event service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// SaveEventInput carries the fields of an event create or update.
type SaveEventInput struct {
	ID                       *uuid.UUID `json:"id"`
	Name                     string     `json:"name" validate:"required"`
	Start                    time.Time  `json:"start" validate:"required"`
	End                      time.Time  `json:"end" validate:"required"`
	SeasonID                 uuid.UUID  `json:"season_id" validate:"required"`
	EventTypeID              uuid.UUID  `json:"event_type_id" validate:"required"`
	EntryCutoffDate          time.Time  `json:"entry_cutoff_date" validate:"required"`
	FreeWithdrawalCutoffDate time.Time  `json:"free_withdrawal_cutoff_date" validate:"required"`
	AllowLateEntry           bool       `json:"allow_late_entry"`
	ScoresReleased           bool       `json:"scores_released"`
}

func (input SaveEventInput) validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !input.End.After(input.Start) {
		return fmt.Errorf("event end must be after start")
	}
	if input.EntryCutoffDate.After(input.Start) {
		return fmt.Errorf("entry cutoff must not be after the event start")
	}
	if input.FreeWithdrawalCutoffDate.After(input.Start) {
		return fmt.Errorf("free withdrawal cutoff must not be after the event start")
	}
	return nil
}

// Save creates or updates an event.
func (s *Service) Save(ctx context.Context, input SaveEventInput) (*models.Event, error) {
	if err := input.validate(); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid event")
	}

	if input.ID == nil {
		event := &models.Event{
			Name:                     strings.TrimSpace(input.Name),
			Start:                    input.Start,
			End:                      input.End,
			SeasonID:                 input.SeasonID,
			EventTypeID:              input.EventTypeID,
			EntryCutoffDate:          input.EntryCutoffDate,
			FreeWithdrawalCutoffDate: input.FreeWithdrawalCutoffDate,
			AllowLateEntry:           input.AllowLateEntry,
			ScoresReleased:           input.ScoresReleased,
		}
		if err := s.repo.Create(ctx, event); err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "creating event")
		}
		return event, nil
	}

	event, err := s.repo.Find(ctx, *input.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil {
		return nil, errors.New(errors.CodeNotFound, "event not found")
	}

	event.Name = strings.TrimSpace(input.Name)
	event.Start = input.Start
	event.End = input.End
	event.SeasonID = input.SeasonID
	event.EventTypeID = input.EventTypeID
	event.EntryCutoffDate = input.EntryCutoffDate
	event.FreeWithdrawalCutoffDate = input.FreeWithdrawalCutoffDate
	event.AllowLateEntry = input.AllowLateEntry
	event.ScoresReleased = input.ScoresReleased
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating event")
	}
	return event, nil
}

// Get returns one event with its season and event type.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil {
		return nil, errors.New(errors.CodeNotFound, "event not found")
	}
	return event, nil
}

// ListBySeason returns a season's events in calendar order.
func (s *Service) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]models.Event, error) {
	events, err := s.repo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing events")
	}
	return events, nil
}
