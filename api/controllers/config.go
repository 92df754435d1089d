package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bybauk/byba-backend/api/responses"
	"github.com/bybauk/byba-backend/api/validators"
	"github.com/bybauk/byba-backend/internal/events"
	"github.com/bybauk/byba-backend/internal/eventtypes"
	"github.com/bybauk/byba-backend/internal/organisations"
	"github.com/bybauk/byba-backend/internal/seasons"
	pkgerrors "github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/types"
)

type saveEventTypeRequest struct {
	ID        types.NullableUUID `json:"id"`
	Name      string             `json:"name" validate:"required"`
	EntryCost decimal.Decimal    `json:"entry_cost" validate:"required"`
	IsActive  bool               `json:"is_active"`
	Discounts []discountRequest  `json:"discounts" validate:"dive"`
}

type discountRequest struct {
	DiscountAfter      int             `json:"discount_after" validate:"min=0"`
	DiscountMultiplier decimal.Decimal `json:"discount_multiplier" validate:"required"`
}

// SaveEventType creates or updates an event type, replacing its discount
// tiers with the submitted list.
func SaveEventType(svc *eventtypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event type service unavailable"))
			return
		}

		var payload saveEventTypeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := eventtypes.SaveEventTypeInput{
			ID:        payload.ID.Value,
			Name:      payload.Name,
			EntryCost: payload.EntryCost,
			IsActive:  payload.IsActive,
		}
		for _, tier := range payload.Discounts {
			input.Discounts = append(input.Discounts, eventtypes.DiscountInput{
				DiscountAfter:      tier.DiscountAfter,
				DiscountMultiplier: tier.DiscountMultiplier,
			})
		}

		saved, err := svc.Save(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

type saveSeasonRequest struct {
	ID         types.NullableUUID `json:"id"`
	Identifier string             `json:"identifier" validate:"required"`
	Start      time.Time          `json:"start" validate:"required"`
	End        time.Time          `json:"end" validate:"required"`
}

// SaveSeason creates or updates a season. Overlapping date ranges are
// rejected.
func SaveSeason(svc *seasons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "season service unavailable"))
			return
		}

		var payload saveSeasonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), seasons.SaveSeasonInput{
			ID:         payload.ID.Value,
			Identifier: payload.Identifier,
			Start:      payload.Start,
			End:        payload.End,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

type saveEventRequest struct {
	ID                       types.NullableUUID `json:"id"`
	Name                     string             `json:"name" validate:"required"`
	Start                    time.Time          `json:"start" validate:"required"`
	End                      time.Time          `json:"end" validate:"required"`
	SeasonID                 string             `json:"season_id" validate:"required,uuid"`
	EventTypeID              string             `json:"event_type_id" validate:"required,uuid"`
	EntryCutoffDate          time.Time          `json:"entry_cutoff_date" validate:"required"`
	FreeWithdrawalCutoffDate time.Time          `json:"free_withdrawal_cutoff_date" validate:"required"`
	AllowLateEntry           bool               `json:"allow_late_entry"`
	ScoresReleased           bool               `json:"scores_released"`
}

// SaveEvent creates or updates an event and its cutoff configuration.
func SaveEvent(svc *events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		var payload saveEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seasonID, err := validators.ParseBodyUUID(payload.SeasonID, "season_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventTypeID, err := validators.ParseBodyUUID(payload.EventTypeID, "event_type_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), events.SaveEventInput{
			ID:                       payload.ID.Value,
			Name:                     payload.Name,
			Start:                    payload.Start,
			End:                      payload.End,
			SeasonID:                 seasonID,
			EventTypeID:              eventTypeID,
			EntryCutoffDate:          payload.EntryCutoffDate,
			FreeWithdrawalCutoffDate: payload.FreeWithdrawalCutoffDate,
			AllowLateEntry:           payload.AllowLateEntry,
			ScoresReleased:           payload.ScoresReleased,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

type saveOrganisationRequest struct {
	ID   types.NullableUUID `json:"id"`
	Name string             `json:"name" validate:"required"`
	Slug string             `json:"slug"`
}

// SaveOrganisation creates or updates an organisation.
func SaveOrganisation(svc *organisations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organisation service unavailable"))
			return
		}

		var payload saveOrganisationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), organisations.SaveOrganisationInput{
			ID:   payload.ID.Value,
			Name: payload.Name,
			Slug: payload.Slug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

type leagueScoreRequest struct {
	Score float64 `json:"score"`
}

// SetLeagueScore upserts an organisation's league score for a season.
func SetLeagueScore(svc *organisations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organisation service unavailable"))
			return
		}

		organisationID, err := validators.ParseURLUUID(r, "orgID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		seasonID, err := validators.ParseURLUUID(r, "seasonID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload leagueScoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.SetLeagueScore(r.Context(), organisationID, seasonID, payload.Score)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

// LeagueTable lists a season's league scores, worst first.
func LeagueTable(svc *organisations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organisation service unavailable"))
			return
		}

		seasonID, err := validators.ParseURLUUID(r, "seasonID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scores, err := svc.LeagueTable(r.Context(), seasonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, scores)
	}
}
