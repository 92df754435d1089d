package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/enums"
)

func setupScheduleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  start DATETIME NOT NULL,
  "end" DATETIME NOT NULL,
  season_id TEXT NOT NULL,
  event_type_id TEXT NOT NULL,
  entry_cutoff_date DATETIME NOT NULL,
  free_withdrawal_cutoff_date DATETIME NOT NULL,
  allow_late_entry INTEGER NOT NULL DEFAULT 0,
  scores_released INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS organisations (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS divisions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  performance_time INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS league_scores (
  id TEXT PRIMARY KEY,
  organisation_id TEXT NOT NULL,
  season_id TEXT NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS event_registrations (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  organisation_id TEXT NOT NULL,
  division_id TEXT,
  entry_date DATETIME NOT NULL,
  withdrawn INTEGER NOT NULL DEFAULT 0,
  registration_fee_id TEXT,
  withdrawal_fee_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS schedule_generations (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  order_type TEXT NOT NULL,
  start_time TEXT NOT NULL,
  add_breaks INTEGER NOT NULL DEFAULT 0,
  break_type TEXT NOT NULL DEFAULT 'band',
  break_num INTEGER NOT NULL DEFAULT 0,
  break_length INTEGER NOT NULL DEFAULT 0,
  late_on_first INTEGER NOT NULL DEFAULT 0,
  manual INTEGER NOT NULL DEFAULT 0,
  epoch INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS schedule_divisions (
  id TEXT PRIMARY KEY,
  schedule_generation_id TEXT NOT NULL,
  division_id TEXT,
  position INTEGER NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS event_schedules (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  start DATETIME NOT NULL,
  description TEXT NOT NULL,
  duration INTEGER NOT NULL,
  epoch INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepository_ListEntrants(t *testing.T) {
	db := setupScheduleTestDB(t)
	repo := NewRepository(db)

	eventID := uuid.New()
	seasonID := uuid.New()

	division := &models.Division{ID: uuid.New(), Name: "First Section", IsActive: true}
	performance := 25
	division.PerformanceTime = &performance
	require.NoError(t, db.Create(division).Error)

	ranked := &models.Organisation{ID: uuid.New(), Name: "Ranked Band", Slug: uuid.NewString()}
	unranked := &models.Organisation{ID: uuid.New(), Name: "Unranked Band", Slug: uuid.NewString()}
	gone := &models.Organisation{ID: uuid.New(), Name: "Withdrawn Band", Slug: uuid.NewString()}
	for _, org := range []*models.Organisation{ranked, unranked, gone} {
		require.NoError(t, db.Create(org).Error)
	}

	require.NoError(t, db.Create(&models.LeagueScore{
		ID:             uuid.New(),
		OrganisationID: ranked.ID,
		SeasonID:       seasonID,
		Score:          72.5,
	}).Error)
	// score in another season must not leak in
	require.NoError(t, db.Create(&models.LeagueScore{
		ID:             uuid.New(),
		OrganisationID: unranked.ID,
		SeasonID:       uuid.New(),
		Score:          99,
	}).Error)

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	regs := []*models.EventRegistration{
		{ID: uuid.New(), EventID: eventID, OrganisationID: unranked.ID, EntryDate: base},
		{ID: uuid.New(), EventID: eventID, OrganisationID: ranked.ID, DivisionID: &division.ID, EntryDate: base.Add(time.Hour)},
		{ID: uuid.New(), EventID: eventID, OrganisationID: gone.ID, EntryDate: base.Add(2 * time.Hour), Withdrawn: true},
	}
	for _, reg := range regs {
		require.NoError(t, db.Create(reg).Error)
	}

	entrants, err := repo.ListEntrants(context.Background(), eventID, seasonID, 20)
	require.NoError(t, err)
	require.Len(t, entrants, 2)

	assert.Equal(t, "Unranked Band", entrants[0].Name)
	assert.Nil(t, entrants[0].DivisionID)
	assert.Equal(t, 20, entrants[0].Duration)
	assert.Zero(t, entrants[0].LeagueScore)

	assert.Equal(t, "Ranked Band", entrants[1].Name)
	require.NotNil(t, entrants[1].DivisionID)
	assert.Equal(t, division.ID, *entrants[1].DivisionID)
	assert.Equal(t, 25, entrants[1].Duration)
	assert.InDelta(t, 72.5, entrants[1].LeagueScore, 0.001)
}

func TestRepository_GenerationLifecycle(t *testing.T) {
	db := setupScheduleTestDB(t)
	repo := NewRepository(db)

	eventID := uuid.New()
	first := uuid.New()

	generation := &models.ScheduleGeneration{
		ID:        uuid.New(),
		EventID:   eventID,
		OrderType: enums.ScheduleOrderEntryAsc,
		StartTime: "09:00",
		Epoch:     1,
		Divisions: []models.ScheduleDivision{
			{ID: uuid.New(), DivisionID: &first, Position: 0},
			{ID: uuid.New(), DivisionID: nil, Position: 1},
		},
	}
	require.NoError(t, repo.CreateGeneration(context.Background(), generation))

	found, err := repo.FindGeneration(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Divisions, 2)
	assert.Equal(t, 0, found.Divisions[0].Position)
	require.NotNil(t, found.Divisions[0].DivisionID)
	assert.Equal(t, first, *found.Divisions[0].DivisionID)
	assert.Nil(t, found.Divisions[1].DivisionID)

	require.NoError(t, repo.DeleteGeneration(context.Background(), eventID))

	missing, err := repo.FindGeneration(context.Background(), eventID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	var divisions int64
	require.NoError(t, db.Model(&models.ScheduleDivision{}).
		Where("schedule_generation_id = ?", generation.ID).
		Count(&divisions).Error)
	assert.Zero(t, divisions)
}

func TestRepository_ScheduleRows(t *testing.T) {
	db := setupScheduleTestDB(t)
	repo := NewRepository(db)

	eventID := uuid.New()
	start := time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC)
	rows := []models.EventSchedule{
		{ID: uuid.New(), EventID: eventID, Start: start.Add(20 * time.Minute), Description: "Second", Duration: 20, Epoch: 1},
		{ID: uuid.New(), EventID: eventID, Start: start, Description: "First", Duration: 20, Epoch: 1},
	}
	require.NoError(t, repo.CreateScheduleRows(context.Background(), rows))

	listed, err := repo.ListScheduleRows(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "First", listed[0].Description)
	assert.Equal(t, "Second", listed[1].Description)

	require.NoError(t, repo.DeleteScheduleRows(context.Background(), eventID))
	remaining, err := repo.ListScheduleRows(context.Background(), eventID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
