package fees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/pagination"
)

// Repository handles fee and discount persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindEventType(ctx context.Context, id uuid.UUID) (*models.EventType, error)
	ListSeasonRegistrations(ctx context.Context, seasonID, eventTypeID, organisationID uuid.UUID) ([]models.EventRegistration, error)
	CreateFee(ctx context.Context, fee *models.Fee) error
	UpdateFee(ctx context.Context, fee *models.Fee) error
	DeleteFee(ctx context.Context, id uuid.UUID) error
	FindFee(ctx context.Context, id uuid.UUID) (*models.Fee, error)
	AttachRegistrationFee(ctx context.Context, registrationID, feeID uuid.UUID) error
	ListOutstandingFees(ctx context.Context, params ListOutstandingQuery) ([]models.Fee, *pagination.Cursor, error)
	FindPaymentType(ctx context.Context, id uuid.UUID) (*models.PaymentType, error)
}

// ListOutstandingQuery configures outstanding fee list queries.
type ListOutstandingQuery struct {
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a fee repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindEventType(ctx context.Context, id uuid.UUID) (*models.EventType, error) {
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

func (r *repository) ListSeasonRegistrations(ctx context.Context, seasonID, eventTypeID, organisationID uuid.UUID) ([]models.EventRegistration, error) {
	var regs []models.EventRegistration
	if err := r.db.WithContext(ctx).
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("events.season_id = ?", seasonID).
		Where("events.event_type_id = ?", eventTypeID).
		Where("event_registrations.organisation_id = ?", organisationID).
		Preload("Event").
		Preload("RegistrationFee").
		Order("events.start ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *repository) CreateFee(ctx context.Context, fee *models.Fee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *repository) UpdateFee(ctx context.Context, fee *models.Fee) error {
	return r.db.WithContext(ctx).Save(fee).Error
}

func (r *repository) DeleteFee(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Fee{}, "id = ?", id).Error
}

func (r *repository) FindFee(ctx context.Context, id uuid.UUID) (*models.Fee, error) {
	var fee models.Fee
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&fee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &fee, nil
}

func (r *repository) AttachRegistrationFee(ctx context.Context, registrationID, feeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("id = ?", registrationID).
		Update("registration_fee_id", feeID).Error
}

func (r *repository) ListOutstandingFees(ctx context.Context, params ListOutstandingQuery) ([]models.Fee, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Fee{}).Where("is_paid = ?", false)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var fees []models.Fee
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&fees).Error; err != nil {
		return nil, nil, err
	}

	if len(fees) > limit {
		next := fees[limit]
		fees = fees[:limit]
		return fees, &pagination.Cursor{
			CreatedAt: next.CreatedAt,
			ID:        next.ID,
		}, nil
	}

	return fees, nil, nil
}

func (r *repository) FindPaymentType(ctx context.Context, id uuid.UUID) (*models.PaymentType, error) {
	var pt models.PaymentType
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pt).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pt, nil
}
