package seasons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bybauk/byba-backend/pkg/db"
	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
)

// ServiceParams groups dependencies for the season service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// Service manages competition seasons. Seasons must not overlap.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a season service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, now: now}, nil
}

// SaveSeasonInput carries the fields of a season create or update.
type SaveSeasonInput struct {
	ID         *uuid.UUID `json:"id"`
	Identifier string     `json:"identifier" validate:"required"`
	Start      time.Time  `json:"start" validate:"required"`
	End        time.Time  `json:"end" validate:"required"`
}

// Save creates or updates a season, rejecting date-range overlaps with any
// other season.
func (s *Service) Save(ctx context.Context, input SaveSeasonInput) (*models.Season, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, errors.New(errors.CodeValidation, "identifier is required")
	}
	if !input.End.After(input.Start) {
		return nil, errors.New(errors.CodeValidation, "season end must be after start")
	}

	excludeID := uuid.Nil
	if input.ID != nil {
		excludeID = *input.ID
	}
	overlapping, err := s.repo.FindOverlapping(ctx, input.Start, input.End, excludeID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "checking season overlap")
	}
	if overlapping != nil {
		return nil, errors.New(errors.CodeConflict, "season overlaps "+overlapping.Identifier).
			WithDetails(map[string]string{"overlaps": overlapping.Identifier})
	}

	if input.ID == nil {
		season := &models.Season{Identifier: identifier, Start: input.Start, End: input.End}
		if err := s.repo.Create(ctx, season); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, errors.New(errors.CodeConflict, "season identifier already in use")
			}
			return nil, errors.Wrap(errors.CodeDependency, err, "creating season")
		}
		return season, nil
	}

	season, err := s.repo.Find(ctx, *input.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading season")
	}
	if season == nil {
		return nil, errors.New(errors.CodeNotFound, "season not found")
	}

	season.Identifier = identifier
	season.Start = input.Start
	season.End = input.End
	if err := s.repo.Update(ctx, season); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, errors.New(errors.CodeConflict, "season identifier already in use")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "updating season")
	}
	return season, nil
}

// Current returns the season covering the present moment.
func (s *Service) Current(ctx context.Context) (*models.Season, error) {
	season, err := s.repo.FindCurrent(ctx, s.now())
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading current season")
	}
	if season == nil {
		return nil, errors.New(errors.CodeNotFound, "no current season")
	}
	return season, nil
}

// List returns all seasons, newest first.
func (s *Service) List(ctx context.Context) ([]models.Season, error) {
	seasons, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing seasons")
	}
	return seasons, nil
}
