package controllers

import (
	"net/http"

	"github.com/bybauk/byba-backend/api/responses"
	"github.com/bybauk/byba-backend/api/validators"
	"github.com/bybauk/byba-backend/internal/schedule"
	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/enums"
	pkgerrors "github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/types"
)

type generateScheduleRequest struct {
	OrderType     string               `json:"order_type" validate:"required"`
	StartTime     string               `json:"start_time" validate:"required"`
	AddBreaks     bool                 `json:"add_breaks"`
	BreakType     string               `json:"break_type"`
	BreakNum      int                  `json:"break_num" validate:"min=0"`
	BreakLength   int                  `json:"break_length" validate:"min=0"`
	LateOnFirst   bool                 `json:"late_on_first"`
	Manual        bool                 `json:"manual"`
	DivisionOrder []types.NullableUUID `json:"division_order"`
}

func (r generateScheduleRequest) toConfig() (schedule.Config, error) {
	orderType, err := enums.ParseScheduleOrderType(r.OrderType)
	if err != nil {
		return schedule.Config{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type")
	}

	cfg := schedule.Config{
		OrderType:   orderType,
		StartTime:   r.StartTime,
		AddBreaks:   r.AddBreaks,
		BreakNum:    r.BreakNum,
		BreakLength: r.BreakLength,
		LateOnFirst: r.LateOnFirst,
		Manual:      r.Manual,
	}
	if r.AddBreaks {
		breakType, err := enums.ParseBreakType(r.BreakType)
		if err != nil {
			return schedule.Config{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid break type")
		}
		cfg.BreakType = breakType
	}
	return cfg, nil
}

// GenerateSchedule builds a fresh timetable for an event from the requested
// configuration, replacing whatever was stored before.
func GenerateSchedule(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		eventID, err := validators.ParseURLUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload generateScheduleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := payload.toConfig()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Generate(r.Context(), eventID, cfg, payload.DivisionOrder); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		generation, rows, err := svc.Current(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, scheduleResponse(generation, rows))
	}
}

// GetSchedule returns the stored timetable and the generation it came from.
func GetSchedule(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		eventID, err := validators.ParseURLUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		generation, rows, err := svc.Current(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, scheduleResponse(generation, rows))
	}
}

func scheduleResponse(generation *models.ScheduleGeneration, rows []models.EventSchedule) map[string]any {
	payload := map[string]any{
		"generation": generation,
		"slots":      rows,
	}
	if generation != nil {
		payload["epoch"] = generation.Epoch
	}
	return payload
}
