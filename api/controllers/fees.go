package controllers

import (
	"net/http"
	"strings"

	"github.com/bybauk/byba-backend/api/responses"
	"github.com/bybauk/byba-backend/api/validators"
	"github.com/bybauk/byba-backend/internal/fees"
	pkgerrors "github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/pagination"
)

type recalculateFeesRequest struct {
	SeasonID       string `json:"season_id" validate:"required,uuid"`
	EventTypeID    string `json:"event_type_id" validate:"required,uuid"`
	OrganisationID string `json:"organisation_id" validate:"required,uuid"`
}

// RecalculateFees reprices an organisation's registration fees for a season
// and event type.
func RecalculateFees(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		var payload recalculateFeesRequest
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
		organisationID, err := validators.ParseBodyUUID(payload.OrganisationID, "organisation_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RecalculateFees(r.Context(), seasonID, eventTypeID, organisationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "recalculated"})
	}
}

// OutstandingFees lists unpaid fees, cursor paginated.
func OutstandingFees(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		rows, next, err := svc.ListOutstanding(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"fees": rows}
		if next != nil {
			payload["next_cursor"] = pagination.EncodeCursor(*next)
		}
		responses.WriteSuccess(w, payload)
	}
}

type payFeeRequest struct {
	PaymentTypeID string `json:"payment_type_id" validate:"required,uuid"`
}

// PayFee marks a fee as settled with a payment type.
func PayFee(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		feeID, err := validators.ParseURLUUID(r, "feeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload payFeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentTypeID, err := validators.ParseBodyUUID(payload.PaymentTypeID, "payment_type_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fee, err := svc.MarkPaid(r.Context(), feeID, paymentTypeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, fee)
	}
}
