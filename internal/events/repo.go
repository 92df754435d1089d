package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// Repository handles event persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an event repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).
		Preload("Season").
		Preload("EventType").
		Where("id = ?", id).
		First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("start ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("Season", "EventType").Save(event).Error
}
