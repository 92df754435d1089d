package seasons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// Repository handles season persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, id uuid.UUID) (*models.Season, error)
	FindCurrent(ctx context.Context, at time.Time) (*models.Season, error)
	FindOverlapping(ctx context.Context, start, end time.Time, excludeID uuid.UUID) (*models.Season, error)
	Create(ctx context.Context, season *models.Season) error
	Update(ctx context.Context, season *models.Season) error
	List(ctx context.Context) ([]models.Season, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a season repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&season).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

func (r *repository) FindCurrent(ctx context.Context, at time.Time) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).
		Where("start <= ?", at).
		Where(`"end" >= ?`, at).
		Order("start DESC").
		First(&season).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

func (r *repository) FindOverlapping(ctx context.Context, start, end time.Time, excludeID uuid.UUID) (*models.Season, error) {
	query := r.db.WithContext(ctx).
		Where("start <= ?", end).
		Where(`"end" >= ?`, start)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var season models.Season
	if err := query.First(&season).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

func (r *repository) Create(ctx context.Context, season *models.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *repository) Update(ctx context.Context, season *models.Season) error {
	return r.db.WithContext(ctx).Save(season).Error
}

func (r *repository) List(ctx context.Context) ([]models.Season, error) {
	var seasons []models.Season
	if err := r.db.WithContext(ctx).
		Order("start DESC").
		Find(&seasons).Error; err != nil {
		return nil, err
	}
	return seasons, nil
}
