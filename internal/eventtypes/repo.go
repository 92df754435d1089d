package eventtypes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// Repository handles event type and discount tier persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, id uuid.UUID) (*models.EventType, error)
	List(ctx context.Context) ([]models.EventType, error)
	Create(ctx context.Context, eventType *models.EventType) error
	Update(ctx context.Context, eventType *models.EventType) error
	DeleteDiscounts(ctx context.Context, eventTypeID uuid.UUID) error
	CreateDiscounts(ctx context.Context, discounts []models.EventTypeDiscount) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an event type repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.EventType, error) {
	var eventType models.EventType
	if err := r.db.WithContext(ctx).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("discount_after ASC")
		}).
		Where("id = ?", id).
		First(&eventType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &eventType, nil
}

func (r *repository) List(ctx context.Context) ([]models.EventType, error) {
	var eventTypes []models.EventType
	if err := r.db.WithContext(ctx).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("discount_after ASC")
		}).
		Order("name ASC").
		Find(&eventTypes).Error; err != nil {
		return nil, err
	}
	return eventTypes, nil
}

func (r *repository) Create(ctx context.Context, eventType *models.EventType) error {
	return r.db.WithContext(ctx).Create(eventType).Error
}

func (r *repository) Update(ctx context.Context, eventType *models.EventType) error {
	return r.db.WithContext(ctx).Omit("Discounts").Save(eventType).Error
}

func (r *repository) DeleteDiscounts(ctx context.Context, eventTypeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("event_type_id = ?", eventTypeID).
		Delete(&models.EventTypeDiscount{}).Error
}

func (r *repository) CreateDiscounts(ctx context.Context, discounts []models.EventTypeDiscount) error {
	if len(discounts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&discounts).Error
}
