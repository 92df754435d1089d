package controllers

import (
	"net/http"

	"github.com/bybauk/byba-backend/api/responses"
	"github.com/bybauk/byba-backend/api/validators"
	"github.com/bybauk/byba-backend/internal/registrations"
	pkgerrors "github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/types"
)

type registerRequest struct {
	OrganisationID string             `json:"organisation_id" validate:"required,uuid"`
	DivisionID     types.NullableUUID `json:"division_id"`
}

// RegisterOrganisation enters an organisation into an event.
func RegisterOrganisation(svc *registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		eventID, err := validators.ParseURLUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		organisationID, err := validators.ParseBodyUUID(payload.OrganisationID, "organisation_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registration, err := svc.Register(r.Context(), eventID, organisationID, payload.DivisionID.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, registration)
	}
}

// ToggleWithdrawal flips an organisation's registration between entered and
// withdrawn, with the fee and schedule side effects that implies.
func ToggleWithdrawal(svc *registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		eventID, err := validators.ParseURLUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		organisationID, err := validators.ParseURLUUID(r, "orgID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.ToggleWithdrawal(r.Context(), eventID, organisationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"state": state.String()})
	}
}
