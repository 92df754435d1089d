package registrations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// Repository handles registration persistence plus the fee rows the state
// machine creates and destroys.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindOrganisation(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
	FindRegistration(ctx context.Context, eventID, organisationID uuid.UUID) (*models.EventRegistration, error)
	CreateRegistration(ctx context.Context, reg *models.EventRegistration) error
	UpdateRegistration(ctx context.Context, reg *models.EventRegistration) error
	CreateFee(ctx context.Context, fee *models.Fee) error
	DeleteFee(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a registration repository bound to the provided database.
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

func (r *repository) FindOrganisation(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	var org models.Organisation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) FindRegistration(ctx context.Context, eventID, organisationID uuid.UUID) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	if err := r.db.WithContext(ctx).
		Preload("RegistrationFee").
		Preload("WithdrawalFee").
		Where("event_id = ?", eventID).
		Where("organisation_id = ?", organisationID).
		First(&reg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *repository) CreateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(reg).Error
}

func (r *repository) UpdateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(reg).Error
}

func (r *repository) CreateFee(ctx context.Context, fee *models.Fee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *repository) DeleteFee(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Fee{}, "id = ?", id).Error
}
