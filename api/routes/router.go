package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Anuragcr07/pharmacare-backend/api/controllers"
	"github.com/Anuragcr07/pharmacare-backend/api/middleware"
	"github.com/Anuragcr07/pharmacare-backend/internal/auth"
	"github.com/Anuragcr07/pharmacare-backend/internal/billing"
	"github.com/Anuragcr07/pharmacare-backend/internal/inventory"
	"github.com/Anuragcr07/pharmacare-backend/internal/patients"
	"github.com/Anuragcr07/pharmacare-backend/internal/search"
	"github.com/Anuragcr07/pharmacare-backend/internal/stats"
	"github.com/Anuragcr07/pharmacare-backend/internal/symptoms"
	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/Anuragcr07/pharmacare-backend/pkg/metrics"
	"github.com/Anuragcr07/pharmacare-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Metrics *metrics.HTTPMetrics
	// Gatherer backs the /metrics endpoint. Optional.
	Gatherer prometheus.Gatherer

	Auth      auth.Service
	Search    search.Service
	Inventory inventory.Service
	Billing   billing.Service
	Stats     stats.Service
	Patients  patients.Service
	Symptoms  symptoms.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).
			With(middleware.Idempotency(deps.Redis, logg)).
			Post("/signup", controllers.AuthSignup(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Get("/verify/{token}", controllers.AuthVerifyEmail(deps.Auth, logg))
	})

	r.Get("/api/v1/medicines/search", controllers.MedicineSearch(deps.Search, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequirePharmacy(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Post("/add", controllers.InventoryAdd(deps.Inventory, logg))
			r.Patch("/update-stock", controllers.InventoryUpdateStock(deps.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(deps.Inventory, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.TransactionCreate(deps.Billing, logg))
			r.Get("/", controllers.TransactionList(deps.Billing, logg))
			r.Get("/{id}", controllers.TransactionGet(deps.Billing, logg))
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/dashboard", controllers.StatsDashboard(deps.Stats, logg))
			r.Get("/revenue", controllers.StatsRevenue(deps.Stats, logg))
		})

		r.Get("/patients", controllers.PatientList(deps.Patients, logg))
		r.Post("/symptoms/analyze", controllers.SymptomAnalyze(deps.Symptoms, logg))
	})

	return r
}
