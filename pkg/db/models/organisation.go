package models

import (
	"time"

	"github.com/google/uuid"
)

// Organisation is a band that registers for events and holds memberships.
type Organisation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// LeagueScore is the season-scoped ranking value used as the sort key for
// league-ordered scheduling.
type LeagueScore struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganisationID uuid.UUID `gorm:"column:organisation_id;type:uuid;not null;uniqueIndex:idx_league_scores_org_season"`
	SeasonID       uuid.UUID `gorm:"column:season_id;type:uuid;not null;uniqueIndex:idx_league_scores_org_season"`
	Score          float64   `gorm:"column:score;not null;default:0"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
