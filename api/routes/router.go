package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/korzewarrior/smartkart/api/controllers"
	"github.com/korzewarrior/smartkart/api/middleware"
	"github.com/korzewarrior/smartkart/pkg/config"
	"github.com/korzewarrior/smartkart/pkg/db"
	"github.com/korzewarrior/smartkart/pkg/logger"
)

// NewRouter wires the polling UI surface: a state snapshot, the cart, and
// one action endpoint per physical control.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	core controllers.Core,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", controllers.GetState(core, logg))
		r.Get("/cart", controllers.GetCart(core, logg))
		r.Post("/scan", controllers.PostScan(core, logg))
		r.Post("/buttons/{button}", controllers.PostButton(core, logg))
		r.Post("/dial/{direction}", controllers.PostDial(core, logg))
		r.Post("/reset", controllers.PostReset(core, logg))
	})

	return r
}
