package organisations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// Repository handles organisation and league score persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
	FindBySlug(ctx context.Context, slug string) (*models.Organisation, error)
	List(ctx context.Context) ([]models.Organisation, error)
	Create(ctx context.Context, organisation *models.Organisation) error
	Update(ctx context.Context, organisation *models.Organisation) error
	UpsertLeagueScore(ctx context.Context, score *models.LeagueScore) error
	ListLeagueScores(ctx context.Context, seasonID uuid.UUID) ([]models.LeagueScore, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an organisation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	var organisation models.Organisation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&organisation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &organisation, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Organisation, error) {
	var organisation models.Organisation
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&organisation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &organisation, nil
}

func (r *repository) List(ctx context.Context) ([]models.Organisation, error) {
	var organisations []models.Organisation
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&organisations).Error; err != nil {
		return nil, err
	}
	return organisations, nil
}

func (r *repository) Create(ctx context.Context, organisation *models.Organisation) error {
	return r.db.WithContext(ctx).Create(organisation).Error
}

func (r *repository) Update(ctx context.Context, organisation *models.Organisation) error {
	return r.db.WithContext(ctx).Save(organisation).Error
}

func (r *repository) UpsertLeagueScore(ctx context.Context, score *models.LeagueScore) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organisation_id"}, {Name: "season_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(score).Error
}

func (r *repository) ListLeagueScores(ctx context.Context, seasonID uuid.UUID) ([]models.LeagueScore, error) {
	var scores []models.LeagueScore
	if err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("score ASC").
		Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
