package schedule

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
	"github.com/bybauk/byba-backend/pkg/types"
)

const defaultPerformanceMinutes = 20

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Locker serializes regenerations per event across processes.
type Locker interface {
	ScheduleLockKey(eventID string) string
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error)
}

// ServiceParams groups dependencies for the schedule service.
type ServiceParams struct {
	Repo            Repository
	Runner          txRunner
	Locker          Locker
	Logger          *logger.Logger
	Metrics         *metrics.EngineMetrics
	LockTTL         time.Duration
	DefaultDuration int
	Shuffle         Shuffler
}

// Service rebuilds event timetables from current registrations.
type Service struct {
	repo            Repository
	runner          txRunner
	locker          Locker
	logg            *logger.Logger
	metrics         *metrics.EngineMetrics
	lockTTL         time.Duration
	defaultDuration int
	shuffle         Shuffler
}

// NewService builds a schedule service. Locker may be nil, in which case
// rebuilds are serialized only by the surrounding transaction.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	lockTTL := params.LockTTL
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	duration := params.DefaultDuration
	if duration <= 0 {
		duration = defaultPerformanceMinutes
	}
	shuffle := params.Shuffle
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	return &Service{
		repo:            params.Repo,
		runner:          params.Runner,
		locker:          params.Locker,
		logg:            params.Logger,
		metrics:         params.Metrics,
		lockTTL:         lockTTL,
		defaultDuration: duration,
		shuffle:         shuffle,
	}, nil
}

// Generate validates the configuration, then destructively rebuilds the
// event's timetable inside one transaction. The previous generation and all
// schedule rows are replaced; the new generation's epoch is the previous
// epoch plus one.
func (s *Service) Generate(ctx context.Context, eventID uuid.UUID, cfg Config, divisionOrder []types.NullableUUID) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveDuration(metrics.OpScheduleGenerate, time.Since(start))
		if err != nil {
			s.metrics.IncFailure(metrics.OpScheduleGenerate)
			return
		}
		s.metrics.IncSuccess(metrics.OpScheduleGenerate)
	}()

	ctx = s.logg.WithEventID(ctx, eventID.String())

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "invalid schedule configuration")
	}

	event, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil {
		return errors.New(errors.CodeNotFound, "event not found")
	}

	if s.locker != nil {
		release, ok, lockErr := s.locker.AcquireLock(ctx, s.locker.ScheduleLockKey(eventID.String()), s.lockTTL)
		if lockErr != nil {
			return errors.Wrap(errors.CodeDependency, lockErr, "acquiring schedule lock")
		}
		if !ok {
			return errors.New(errors.CodeConflict, "schedule generation already in progress")
		}
		defer release()
	}

	previous, err := s.repo.FindGeneration(ctx, eventID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading previous generation")
	}
	epoch := 1
	if previous != nil {
		epoch = previous.Epoch + 1
	}

	txErr := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.rebuild(ctx, s.repo.WithTx(tx), event, cfg, divisionOrder, epoch)
	})
	if txErr != nil {
		if typed := errors.As(txErr); typed != nil {
			return typed
		}
		return errors.Wrap(errors.CodeDependency, txErr, "rebuilding schedule")
	}

	s.logg.Info(s.logg.WithField(ctx, "epoch", epoch), "schedule generated")
	return nil
}

// RebuildStored regenerates the event's schedule inside the caller's
// transaction, reusing the stored generation configuration and division
// order. A missing or manual generation is a no-op.
func (s *Service) RebuildStored(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	repo := s.repo.WithTx(tx)

	generation, err := repo.FindGeneration(ctx, eventID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading stored generation")
	}
	if generation == nil || generation.Manual {
		return nil
	}

	event, err := repo.FindEvent(ctx, eventID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil {
		return errors.New(errors.CodeNotFound, "event not found")
	}

	cfg := Config{
		OrderType:   generation.OrderType,
		StartTime:   generation.StartTime,
		AddBreaks:   generation.AddBreaks,
		BreakType:   generation.BreakType,
		BreakNum:    generation.BreakNum,
		BreakLength: generation.BreakLength,
		LateOnFirst: generation.LateOnFirst,
	}
	divisionOrder := make([]types.NullableUUID, 0, len(generation.Divisions))
	for _, division := range generation.Divisions {
		divisionOrder = append(divisionOrder, types.NullableUUID{Valid: true, Value: division.DivisionID})
	}

	return s.rebuild(ctx, repo, event, cfg, divisionOrder, generation.Epoch+1)
}

func (s *Service) rebuild(ctx context.Context, repo Repository, event *models.Event, cfg Config, divisionOrder []types.NullableUUID, epoch int) error {
	entrants, err := repo.ListEntrants(ctx, event.ID, event.SeasonID, s.defaultDuration)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "loading entrants")
	}

	slots, err := Build(cfg, BuildInput{
		EventStart:    event.Start,
		EntryCutoff:   event.EntryCutoffDate,
		Entrants:      entrants,
		DivisionOrder: divisionOrder,
	}, s.shuffle)
	if err != nil {
		return errors.Wrap(errors.CodeValidation, err, "building schedule")
	}

	if err := repo.DeleteScheduleRows(ctx, event.ID); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "clearing schedule rows")
	}
	if err := repo.DeleteGeneration(ctx, event.ID); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "clearing previous generation")
	}

	generation := &models.ScheduleGeneration{
		EventID:     event.ID,
		OrderType:   cfg.OrderType,
		StartTime:   cfg.StartTime,
		AddBreaks:   cfg.AddBreaks,
		BreakType:   cfg.BreakType,
		BreakNum:    cfg.BreakNum,
		BreakLength: cfg.BreakLength,
		LateOnFirst: cfg.LateOnFirst,
		Manual:      cfg.Manual,
		Epoch:       epoch,
	}
	for position, division := range divisionOrder {
		generation.Divisions = append(generation.Divisions, models.ScheduleDivision{
			DivisionID: division.Value,
			Position:   position,
		})
	}
	if err := repo.CreateGeneration(ctx, generation); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving generation")
	}

	rows := make([]models.EventSchedule, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, models.EventSchedule{
			EventID:     event.ID,
			Start:       slot.Start,
			Description: slot.Description,
			Duration:    slot.Duration,
			Epoch:       epoch,
		})
	}
	if err := repo.CreateScheduleRows(ctx, rows); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving schedule rows")
	}

	return nil
}

// Current returns the stored generation (nil when never generated) and the
// event's schedule rows in start order.
func (s *Service) Current(ctx context.Context, eventID uuid.UUID) (*models.ScheduleGeneration, []models.EventSchedule, error) {
	event, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeDependency, err, "loading event")
	}
	if event == nil {
		return nil, nil, errors.New(errors.CodeNotFound, "event not found")
	}

	generation, err := s.repo.FindGeneration(ctx, eventID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeDependency, err, "loading generation")
	}
	rows, err := s.repo.ListScheduleRows(ctx, eventID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeDependency, err, "loading schedule rows")
	}
	return generation, rows, nil
}
