package organisations

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
)

type fakeRepository struct {
	organisations map[uuid.UUID]*models.Organisation
	scores        map[string]*models.LeagueScore
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		organisations: map[uuid.UUID]*models.Organisation{},
		scores:        map[string]*models.LeagueScore{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Find(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	return f.organisations[id], nil
}

func (f *fakeRepository) FindBySlug(ctx context.Context, slug string) (*models.Organisation, error) {
	for _, organisation := range f.organisations {
		if organisation.Slug == slug {
			return organisation, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Organisation, error) {
	var out []models.Organisation
	for _, organisation := range f.organisations {
		out = append(out, *organisation)
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, organisation *models.Organisation) error {
	for _, existing := range f.organisations {
		if existing.Slug == organisation.Slug {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	organisation.ID = uuid.New()
	f.organisations[organisation.ID] = organisation
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, organisation *models.Organisation) error {
	for id, existing := range f.organisations {
		if id != organisation.ID && existing.Slug == organisation.Slug {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	f.organisations[organisation.ID] = organisation
	return nil
}

func (f *fakeRepository) UpsertLeagueScore(ctx context.Context, score *models.LeagueScore) error {
	key := score.OrganisationID.String() + ":" + score.SeasonID.String()
	f.scores[key] = score
	return nil
}

func (f *fakeRepository) ListLeagueScores(ctx context.Context, seasonID uuid.UUID) ([]models.LeagueScore, error) {
	var out []models.LeagueScore
	for _, score := range f.scores {
		if score.SeasonID == seasonID {
			out = append(out, *score)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hawthorn Caledonia Pipe Band": "hawthorn-caledonia-pipe-band",
		"  St. Andrew's  ":             "st-andrew-s",
		"78th Fraser Highlanders":      "78th-fraser-highlanders",
	}
	for name, want := range cases {
		if got := Slugify(name); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestService_Save_DerivesSlug(t *testing.T) {
	svc := newTestService(t, newFakeRepository())

	organisation, err := svc.Save(context.Background(), SaveOrganisationInput{Name: "City of Brass"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if organisation.Slug != "city-of-brass" {
		t.Fatalf("expected derived slug, got %q", organisation.Slug)
	}
}

func TestService_Save_DuplicateSlugRejected(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	if _, err := svc.Save(context.Background(), SaveOrganisationInput{Name: "City of Brass"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err := svc.Save(context.Background(), SaveOrganisationInput{Name: "CITY OF BRASS"})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_Save_UpdateMissingOrganisation(t *testing.T) {
	svc := newTestService(t, newFakeRepository())

	missing := uuid.New()
	_, err := svc.Save(context.Background(), SaveOrganisationInput{ID: &missing, Name: "Ghost Band"})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_SetLeagueScore_Upserts(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	organisation, err := svc.Save(context.Background(), SaveOrganisationInput{Name: "City of Brass"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	seasonID := uuid.New()

	if _, err := svc.SetLeagueScore(context.Background(), organisation.ID, seasonID, 88.5); err != nil {
		t.Fatalf("SetLeagueScore: %v", err)
	}
	if _, err := svc.SetLeagueScore(context.Background(), organisation.ID, seasonID, 91.0); err != nil {
		t.Fatalf("SetLeagueScore: %v", err)
	}

	scores, err := svc.LeagueTable(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("LeagueTable: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected a single score row, got %d", len(scores))
	}
	if scores[0].Score != 91.0 {
		t.Fatalf("expected the replaced score, got %v", scores[0].Score)
	}
}

func TestService_SetLeagueScore_UnknownOrganisation(t *testing.T) {
	svc := newTestService(t, newFakeRepository())

	_, err := svc.SetLeagueScore(context.Background(), uuid.New(), uuid.New(), 50)
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
