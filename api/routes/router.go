package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bybauk/byba-backend/api/controllers"
	"github.com/bybauk/byba-backend/api/middleware"
	"github.com/bybauk/byba-backend/internal/events"
	"github.com/bybauk/byba-backend/internal/eventtypes"
	"github.com/bybauk/byba-backend/internal/fees"
	"github.com/bybauk/byba-backend/internal/organisations"
	"github.com/bybauk/byba-backend/internal/registrations"
	"github.com/bybauk/byba-backend/internal/schedule"
	"github.com/bybauk/byba-backend/internal/seasons"
	"github.com/bybauk/byba-backend/pkg/config"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/redis"
)

// Services groups everything the router wires into controllers.
type Services struct {
	Registrations *registrations.Service
	Schedule      *schedule.Service
	Fees          *fees.Service
	Seasons       *seasons.Service
	Events        *events.Service
	EventTypes    *eventtypes.Service
	Organisations *organisations.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Post("/registrations", controllers.RegisterOrganisation(svcs.Registrations, logg))
			r.Post("/registrations/{orgID}/withdrawal", controllers.ToggleWithdrawal(svcs.Registrations, logg))
			r.Post("/schedule", controllers.GenerateSchedule(svcs.Schedule, logg))
			r.Get("/schedule", controllers.GetSchedule(svcs.Schedule, logg))
		})

		r.Route("/fees", func(r chi.Router) {
			r.Post("/recalculate", controllers.RecalculateFees(svcs.Fees, logg))
			r.Get("/outstanding", controllers.OutstandingFees(svcs.Fees, logg))
			r.Post("/{feeID}/pay", controllers.PayFee(svcs.Fees, logg))
		})

		r.Get("/seasons/{seasonID}/league-table", controllers.LeagueTable(svcs.Organisations, logg))

		r.Route("/config", func(r chi.Router) {
			r.Post("/event-types", controllers.SaveEventType(svcs.EventTypes, logg))
			r.Post("/seasons", controllers.SaveSeason(svcs.Seasons, logg))
			r.Post("/events", controllers.SaveEvent(svcs.Events, logg))
			r.Post("/organisations", controllers.SaveOrganisation(svcs.Organisations, logg))
			r.Put("/organisations/{orgID}/league-scores/{seasonID}", controllers.SetLeagueScore(svcs.Organisations, logg))
		})
	})

	return r
}
