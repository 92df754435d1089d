package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// Repository handles schedule persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListEntrants(ctx context.Context, eventID, seasonID uuid.UUID, defaultDuration int) ([]Entrant, error)
	FindGeneration(ctx context.Context, eventID uuid.UUID) (*models.ScheduleGeneration, error)
	DeleteGeneration(ctx context.Context, eventID uuid.UUID) error
	CreateGeneration(ctx context.Context, generation *models.ScheduleGeneration) error
	DeleteScheduleRows(ctx context.Context, eventID uuid.UUID) error
	CreateScheduleRows(ctx context.Context, rows []models.EventSchedule) error
	ListScheduleRows(ctx context.Context, eventID uuid.UUID) ([]models.EventSchedule, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a schedule repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

type entrantRow struct {
	OrganisationID uuid.UUID  `gorm:"column:organisation_id"`
	Name           string     `gorm:"column:name"`
	DivisionID     *uuid.UUID `gorm:"column:division_id"`
	EntryDate      time.Time  `gorm:"column:entry_date"`
	LeagueScore    float64    `gorm:"column:league_score"`
	Duration       int        `gorm:"column:duration"`
}

func (r *repository) ListEntrants(ctx context.Context, eventID, seasonID uuid.UUID, defaultDuration int) ([]Entrant, error) {
	var rows []entrantRow
	if err := r.db.WithContext(ctx).
		Table("event_registrations").
		Select(
			"event_registrations.organisation_id, organisations.name, event_registrations.division_id, "+
				"event_registrations.entry_date, COALESCE(league_scores.score, 0) AS league_score, "+
				"COALESCE(divisions.performance_time, ?) AS duration",
			defaultDuration,
		).
		Joins("JOIN organisations ON organisations.id = event_registrations.organisation_id").
		Joins("LEFT JOIN divisions ON divisions.id = event_registrations.division_id").
		Joins("LEFT JOIN league_scores ON league_scores.organisation_id = event_registrations.organisation_id AND league_scores.season_id = ?", seasonID).
		Where("event_registrations.event_id = ?", eventID).
		Where("event_registrations.withdrawn = ?", false).
		Order("event_registrations.entry_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entrants := make([]Entrant, 0, len(rows))
	for _, row := range rows {
		entrants = append(entrants, Entrant{
			OrganisationID: row.OrganisationID,
			Name:           row.Name,
			DivisionID:     row.DivisionID,
			EntryDate:      row.EntryDate,
			LeagueScore:    row.LeagueScore,
			Duration:       row.Duration,
		})
	}
	return entrants, nil
}

func (r *repository) FindGeneration(ctx context.Context, eventID uuid.UUID) (*models.ScheduleGeneration, error) {
	var generation models.ScheduleGeneration
	if err := r.db.WithContext(ctx).
		Preload("Divisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("event_id = ?", eventID).
		First(&generation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &generation, nil
}

func (r *repository) DeleteGeneration(ctx context.Context, eventID uuid.UUID) error {
	subquery := r.db.Model(&models.ScheduleGeneration{}).Select("id").Where("event_id = ?", eventID)
	if err := r.db.WithContext(ctx).
		Where("schedule_generation_id IN (?)", subquery).
		Delete(&models.ScheduleDivision{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.ScheduleGeneration{}).Error
}

func (r *repository) CreateGeneration(ctx context.Context, generation *models.ScheduleGeneration) error {
	return r.db.WithContext(ctx).Create(generation).Error
}

func (r *repository) DeleteScheduleRows(ctx context.Context, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.EventSchedule{}).Error
}

func (r *repository) CreateScheduleRows(ctx context.Context, rows []models.EventSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ListScheduleRows(ctx context.Context, eventID uuid.UUID) ([]models.EventSchedule, error) {
	var rows []models.EventSchedule
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("start ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
