package registrations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/internal/fees"
	"github.com/bybauk/byba-backend/internal/schedule"
	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/enums"
	"github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/locks"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the registration service.
type ServiceParams struct {
	Repo     Repository
	Fees     *fees.Service
	Schedule *schedule.Service
	Runner   txRunner
	Logger   *logger.Logger
	Metrics  *metrics.EngineMetrics
	Locks    *locks.Keyed
	Now      func() time.Time

	// WithdrawalFeeMultiplier defaults to 1.5 times the entry cost.
	WithdrawalFeeMultiplier decimal.Decimal
}

// Service owns the entered/withdrawn state machine and the registration
// lifecycle around it.
type Service struct {
	repo       Repository
	fees       *fees.Service
	schedule   *schedule.Service
	runner     txRunner
	logg       *logger.Logger
	metrics    *metrics.EngineMetrics
	locks      *locks.Keyed
	now        func() time.Time
	multiplier decimal.Decimal
}

// NewService builds a registration service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.Fees == nil {
		return nil, fmt.Errorf("fees service is required")
	}
	if params.Schedule == nil {
		return nil, fmt.Errorf("schedule service is required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	keyed := params.Locks
	if keyed == nil {
		keyed = locks.NewKeyed()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	multiplier := params.WithdrawalFeeMultiplier
	if multiplier.IsZero() {
		multiplier = decimal.NewFromFloat(1.5)
	}
	return &Service{
		repo:       params.Repo,
		fees:       params.Fees,
		schedule:   params.Schedule,
		runner:     params.Runner,
		logg:       params.Logger,
		metrics:    params.Metrics,
		locks:      keyed,
		now:        now,
		multiplier: multiplier,
	}, nil
}

func toggleKey(eventID, organisationID uuid.UUID) string {
	return eventID.String() + ":" + organisationID.String()
}

// ToggleWithdrawal flips a registration between entered and withdrawn.
//
// Withdrawing after the free-withdrawal cutoff creates a withdrawal fee of
// multiplier times the entry cost, once. Reinstating after the entry cutoff
// without late entry fails with a state conflict and leaves the registration
// withdrawn; an allowed reinstatement resets the entry date to now and
// destroys an unpaid withdrawal fee. Fee recalculation and, when an active
// non-manual generation exists, schedule regeneration run in the same
// transaction as the state change.
func (s *Service) ToggleWithdrawal(ctx context.Context, eventID, organisationID uuid.UUID) (newState enums.RegistrationState, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveDuration(metrics.OpWithdrawalToggle, time.Since(start))
		if err != nil {
			s.metrics.IncFailure(metrics.OpWithdrawalToggle)
			return
		}
		s.metrics.IncSuccess(metrics.OpWithdrawalToggle)
	}()

	unlock := s.locks.Lock(toggleKey(eventID, organisationID))
	defer unlock()

	ctx = s.logg.WithEventID(ctx, eventID.String())
	ctx = s.logg.WithOrganisationID(ctx, organisationID.String())

	event, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil || event.EventType == nil {
		return "", errors.New(errors.CodeNotFound, "event not found")
	}

	reg, err := s.repo.FindRegistration(ctx, eventID, organisationID)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "loading registration")
	}
	if reg == nil {
		return "", errors.New(errors.CodeNotFound, "registration not found")
	}

	now := s.now()

	if reg.Withdrawn {
		if now.After(event.EntryCutoffDate) && !event.AllowLateEntry {
			return "", errors.New(errors.CodeStateConflict, "entry closed")
		}
		newState = enums.RegistrationStateEntered
	} else {
		newState = enums.RegistrationStateWithdrawn
	}

	txErr := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if newState == enums.RegistrationStateWithdrawn {
			if err := s.withdraw(ctx, repo, event, reg, now); err != nil {
				return err
			}
		} else {
			if err := s.reinstate(ctx, repo, reg, now); err != nil {
				return err
			}
		}

		if err := s.fees.WithTx(tx).RecalculateFees(ctx, event.SeasonID, event.EventTypeID, organisationID); err != nil {
			return err
		}
		return s.schedule.RebuildStored(ctx, tx, eventID)
	})
	if txErr != nil {
		if typed := errors.As(txErr); typed != nil {
			return "", typed
		}
		return "", errors.Wrap(errors.CodeDependency, txErr, "applying withdrawal toggle")
	}

	s.logg.Info(s.logg.WithField(ctx, "state", newState.String()), "registration state toggled")
	return newState, nil
}

func (s *Service) withdraw(ctx context.Context, repo Repository, event *models.Event, reg *models.EventRegistration, now time.Time) error {
	if now.After(event.FreeWithdrawalCutoffDate) && reg.WithdrawalFeeID == nil {
		fee := &models.Fee{Total: event.EventType.EntryCost.Mul(s.multiplier).Round(2)}
		if err := repo.CreateFee(ctx, fee); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "creating withdrawal fee")
		}
		reg.WithdrawalFeeID = &fee.ID
	}

	reg.Withdrawn = true
	if err := repo.UpdateRegistration(ctx, reg); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving withdrawal")
	}
	return nil
}

func (s *Service) reinstate(ctx context.Context, repo Repository, reg *models.EventRegistration, now time.Time) error {
	// the reset makes this a late entry for scheduling purposes
	reg.EntryDate = now

	var unpaidFeeID *uuid.UUID
	if reg.WithdrawalFee != nil && !reg.WithdrawalFee.IsPaid {
		feeID := reg.WithdrawalFee.ID
		unpaidFeeID = &feeID
		reg.WithdrawalFeeID = nil
		reg.WithdrawalFee = nil
	}

	reg.Withdrawn = false
	if err := repo.UpdateRegistration(ctx, reg); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving reinstatement")
	}

	// withdrawal_fee_id references fees(id); the registration must drop its
	// reference before the fee row can go
	if unpaidFeeID != nil {
		if err := repo.DeleteFee(ctx, *unpaidFeeID); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "destroying unpaid withdrawal fee")
		}
	}
	return nil
}

// Register admits an organisation into an event. The initial registration fee
// comes from the discount recalculation running in the same transaction.
func (s *Service) Register(ctx context.Context, eventID, organisationID uuid.UUID, divisionID *uuid.UUID) (*models.EventRegistration, error) {
	unlock := s.locks.Lock(toggleKey(eventID, organisationID))
	defer unlock()

	ctx = s.logg.WithEventID(ctx, eventID.String())
	ctx = s.logg.WithOrganisationID(ctx, organisationID.String())

	event, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil {
		return nil, errors.New(errors.CodeNotFound, "event not found")
	}

	org, err := s.repo.FindOrganisation(ctx, organisationID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading organisation")
	}
	if org == nil {
		return nil, errors.New(errors.CodeNotFound, "organisation not found")
	}

	existing, err := s.repo.FindRegistration(ctx, eventID, organisationID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "checking existing registration")
	}
	if existing != nil {
		return nil, errors.New(errors.CodeConflict, "organisation already registered for event")
	}

	now := s.now()
	if now.After(event.EntryCutoffDate) && !event.AllowLateEntry {
		return nil, errors.New(errors.CodeStateConflict, "entry closed")
	}

	reg := &models.EventRegistration{
		EventID:        eventID,
		OrganisationID: organisationID,
		DivisionID:     divisionID,
		EntryDate:      now,
	}

	txErr := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateRegistration(ctx, reg); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "creating registration")
		}
		if err := s.fees.WithTx(tx).RecalculateFees(ctx, event.SeasonID, event.EventTypeID, organisationID); err != nil {
			return err
		}
		return s.schedule.RebuildStored(ctx, tx, eventID)
	})
	if txErr != nil {
		if typed := errors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, errors.Wrap(errors.CodeDependency, txErr, "registering organisation")
	}

	s.logg.Info(ctx, "organisation registered")
	return reg, nil
}
