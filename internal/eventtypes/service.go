package eventtypes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the event type service.
type ServiceParams struct {
	Repo   Repository
	Runner txRunner
}

// Service manages event types and their discount schedules. A save replaces
// the discount tiers wholesale so the stored list always matches the request.
type Service struct {
	repo   Repository
	runner txRunner
}

// NewService builds an event type service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &Service{repo: params.Repo, runner: params.Runner}, nil
}

// DiscountInput is one tier of a discount schedule save.
type DiscountInput struct {
	DiscountAfter      int             `json:"discount_after" validate:"min=0"`
	DiscountMultiplier decimal.Decimal `json:"discount_multiplier" validate:"required"`
}

// SaveEventTypeInput carries the fields of an event type create or update.
type SaveEventTypeInput struct {
	ID        *uuid.UUID      `json:"id"`
	Name      string          `json:"name" validate:"required"`
	EntryCost decimal.Decimal `json:"entry_cost" validate:"required"`
	IsActive  bool            `json:"is_active"`
	Discounts []DiscountInput `json:"discounts" validate:"dive"`
}

func validateDiscounts(discounts []DiscountInput) error {
	previous := -1
	for _, tier := range discounts {
		if tier.DiscountAfter < 0 {
			return fmt.Errorf("discount threshold must not be negative")
		}
		if tier.DiscountAfter <= previous {
			return fmt.Errorf("discount thresholds must be strictly ascending")
		}
		if tier.DiscountMultiplier.LessThanOrEqual(decimal.Zero) || tier.DiscountMultiplier.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("discount multiplier must be in (0, 1]")
		}
		previous = tier.DiscountAfter
	}
	return nil
}

// Save creates or updates an event type and replaces its discount tiers.
func (s *Service) Save(ctx context.Context, input SaveEventTypeInput) (*models.EventType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "name is required")
	}
	if input.EntryCost.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "entry cost must not be negative")
	}
	if err := validateDiscounts(input.Discounts); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid discount schedule")
	}

	var saved *models.EventType
	txErr := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		eventType, err := s.upsert(ctx, repo, input, name)
		if err != nil {
			return err
		}

		if err := repo.DeleteDiscounts(ctx, eventType.ID); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "clearing discount tiers")
		}
		discounts := make([]models.EventTypeDiscount, 0, len(input.Discounts))
		for _, tier := range input.Discounts {
			discounts = append(discounts, models.EventTypeDiscount{
				EventTypeID:        eventType.ID,
				DiscountAfter:      tier.DiscountAfter,
				DiscountMultiplier: tier.DiscountMultiplier,
			})
		}
		if err := repo.CreateDiscounts(ctx, discounts); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "saving discount tiers")
		}

		eventType.Discounts = discounts
		saved = eventType
		return nil
	})
	if txErr != nil {
		if typed := errors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, errors.Wrap(errors.CodeDependency, txErr, "saving event type")
	}
	return saved, nil
}

func (s *Service) upsert(ctx context.Context, repo Repository, input SaveEventTypeInput, name string) (*models.EventType, error) {
	if input.ID == nil {
		eventType := &models.EventType{
			Name:      name,
			EntryCost: input.EntryCost,
			IsActive:  input.IsActive,
		}
		if err := repo.Create(ctx, eventType); err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "creating event type")
		}
		return eventType, nil
	}

	eventType, err := repo.Find(ctx, *input.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading event type")
	}
	if eventType == nil {
		return nil, errors.New(errors.CodeNotFound, "event type not found")
	}

	eventType.Name = name
	eventType.EntryCost = input.EntryCost
	eventType.IsActive = input.IsActive
	if err := repo.Update(ctx, eventType); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating event type")
	}
	return eventType, nil
}

// Get returns one event type with its discount tiers.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.EventType, error) {
	eventType, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading event type")
	}
	if eventType == nil {
		return nil, errors.New(errors.CodeNotFound, "event type not found")
	}
	return eventType, nil
}

// List returns all event types with their discount tiers.
func (s *Service) List(ctx context.Context) ([]models.EventType, error) {
	eventTypes, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing event types")
	}
	return eventTypes, nil
}
