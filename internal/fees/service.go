package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/metrics"
	"github.com/bybauk/byba-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the fee service.
type ServiceParams struct {
	Repo    Repository
	Logger  *logger.Logger
	Metrics *metrics.EngineMetrics
	Now     func() time.Time
}

// Service keeps registration fees consistent with the progressive discount
// policy and records fee payments.
type Service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.EngineMetrics
	now     func() time.Time
}

// NewService builds a fee service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// WithTx returns a copy of the service whose repository runs inside tx.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	if tx == nil {
		return s
	}
	clone := *s
	clone.repo = s.repo.WithTx(tx)
	return &clone
}

// RecalculateFees recomputes the registration fee of every non-withdrawn
// registration the organisation holds within the season and event type.
// Tier position follows calendar order of the events; withdrawn registrations
// do not advance the eligible count. Safe to call repeatedly.
func (s *Service) RecalculateFees(ctx context.Context, seasonID, eventTypeID, organisationID uuid.UUID) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveDuration(metrics.OpFeeRecalculate, time.Since(start))
		if err != nil {
			s.metrics.IncFailure(metrics.OpFeeRecalculate)
			return
		}
		s.metrics.IncSuccess(metrics.OpFeeRecalculate)
	}()

	ctx = s.logg.WithFields(ctx, map[string]any{
		"season_id":       seasonID.String(),
		"event_type_id":   eventTypeID.String(),
		"organisation_id": organisationID.String(),
	})

	eventType, err := s.repo.FindEventType(ctx, eventTypeID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading event type")
	}
	if eventType == nil {
		return errors.New(errors.CodeNotFound, "event type not found")
	}

	regs, err := s.repo.ListSeasonRegistrations(ctx, seasonID, eventTypeID, organisationID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading season registrations")
	}

	eligible := 0
	for _, reg := range ByEventStart(regs).All() {
		if reg.Withdrawn {
			continue
		}
		eligible++

		target := eventType.EntryCost.Mul(MultiplierFor(eligible, eventType.Discounts)).Round(2)

		if reg.RegistrationFee == nil {
			fee := &models.Fee{Total: target}
			if err := s.repo.CreateFee(ctx, fee); err != nil {
				return errors.Wrap(errors.CodeDependency, err, "creating registration fee")
			}
			if err := s.repo.AttachRegistrationFee(ctx, reg.ID, fee.ID); err != nil {
				return errors.Wrap(errors.CodeDependency, err, "attaching registration fee")
			}
			continue
		}

		if reg.RegistrationFee.Total.Equal(target) {
			continue
		}

		// A settled fee stays at its settled total; the imbalance is logged
		// rather than the payment being retroactively repriced.
		if reg.RegistrationFee.IsPaid {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"fee_id":       reg.RegistrationFee.ID.String(),
				"paid_total":   reg.RegistrationFee.Total.String(),
				"target_total": target.String(),
			}), "paid registration fee differs from recalculated total, leaving unchanged")
			continue
		}

		reg.RegistrationFee.Total = target
		if err := s.repo.UpdateFee(ctx, reg.RegistrationFee); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "updating registration fee")
		}
	}

	return nil
}

// MarkPaid settles a fee with the given payment type.
func (s *Service) MarkPaid(ctx context.Context, feeID, paymentTypeID uuid.UUID) (*models.Fee, error) {
	fee, err := s.repo.FindFee(ctx, feeID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading fee")
	}
	if fee == nil {
		return nil, errors.New(errors.CodeNotFound, "fee not found")
	}
	if fee.IsPaid {
		return nil, errors.New(errors.CodeConflict, "fee already paid")
	}

	paymentType, err := s.repo.FindPaymentType(ctx, paymentTypeID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading payment type")
	}
	if paymentType == nil {
		return nil, errors.New(errors.CodeNotFound, "payment type not found")
	}
	if !paymentType.IsActive {
		return nil, errors.New(errors.CodeValidation, "payment type is inactive")
	}

	paidAt := s.now().UTC()
	fee.IsPaid = true
	fee.PaymentTypeID = &paymentTypeID
	fee.PaidAt = &paidAt
	if err := s.repo.UpdateFee(ctx, fee); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving fee payment")
	}

	return fee, nil
}

// ListOutstanding returns unpaid fees, newest first, cursor paginated.
func (s *Service) ListOutstanding(ctx context.Context, params pagination.Params) ([]models.Fee, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	fees, next, err := s.repo.ListOutstandingFees(ctx, ListOutstandingQuery{
		Limit:  params.Limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeDependency, err, "listing outstanding fees")
	}
	return fees, next, nil
}
