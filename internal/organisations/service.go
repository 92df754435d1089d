package organisations

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/bybauk/byba-backend/pkg/db"
	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// ServiceParams groups dependencies for the organisation service.
type ServiceParams struct {
	Repo Repository
}

// Service manages the bands that register for events and their league scores.
type Service struct {
	repo Repository
}

// NewService builds an organisation service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// SaveOrganisationInput carries the fields of an organisation create or update.
// Slug is derived from the name when omitted.
type SaveOrganisationInput struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name" validate:"required"`
	Slug string     `json:"slug"`
}

// Save creates or updates an organisation. Slugs are unique across the
// association.
func (s *Service) Save(ctx context.Context, input SaveOrganisationInput) (*models.Organisation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, errors.New(errors.CodeValidation, "a slug could not be derived from the name")
	}

	if input.ID == nil {
		organisation := &models.Organisation{Name: name, Slug: slug}
		if err := s.repo.Create(ctx, organisation); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, errors.New(errors.CodeConflict, "organisation slug already in use").
					WithDetails(map[string]string{"slug": slug})
			}
			return nil, errors.Wrap(errors.CodeDependency, err, "creating organisation")
		}
		return organisation, nil
	}

	organisation, err := s.repo.Find(ctx, *input.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading organisation")
	}
	if organisation == nil {
		return nil, errors.New(errors.CodeNotFound, "organisation not found")
	}

	organisation.Name = name
	organisation.Slug = slug
	if err := s.repo.Update(ctx, organisation); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, errors.New(errors.CodeConflict, "organisation slug already in use").
				WithDetails(map[string]string{"slug": slug})
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "updating organisation")
	}
	return organisation, nil
}

// Get returns one organisation.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	organisation, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading organisation")
	}
	if organisation == nil {
		return nil, errors.New(errors.CodeNotFound, "organisation not found")
	}
	return organisation, nil
}

// List returns all organisations ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Organisation, error) {
	organisations, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing organisations")
	}
	return organisations, nil
}

// SetLeagueScore records an organisation's ranking value for a season,
// replacing any previous value. Lower scores schedule earlier under league
// ordering.
func (s *Service) SetLeagueScore(ctx context.Context, organisationID, seasonID uuid.UUID, score float64) (*models.LeagueScore, error) {
	organisation, err := s.repo.Find(ctx, organisationID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading organisation")
	}
	if organisation == nil {
		return nil, errors.New(errors.CodeNotFound, "organisation not found")
	}

	leagueScore := &models.LeagueScore{
		OrganisationID: organisationID,
		SeasonID:       seasonID,
		Score:          score,
	}
	if err := s.repo.UpsertLeagueScore(ctx, leagueScore); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving league score")
	}
	return leagueScore, nil
}

// LeagueTable returns a season's league scores, worst first.
func (s *Service) LeagueTable(ctx context.Context, seasonID uuid.UUID) ([]models.LeagueScore, error) {
	scores, err := s.repo.ListLeagueScores(ctx, seasonID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing league scores")
	}
	return scores, nil
}
