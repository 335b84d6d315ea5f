package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/globatech/sirest/internal/auth"
	"github.com/globatech/sirest/internal/config"
	"github.com/globatech/sirest/internal/handlers"
	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/middleware"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/notify"
	"github.com/globatech/sirest/internal/services"
)

// DefaultConfiguration maps env defaults onto the configuration record used
// until an admin saves one.
func DefaultConfiguration(cfg config.Config) models.Configuration {
	return models.Configuration{
		RestaurantName: cfg.RestaurantName,
		TaxRate:        cfg.TaxRate,
		ServiceRate:    cfg.ServiceRate,
		Currency:       cfg.Currency,
		Timezone:       cfg.Timezone,
	}
}

// New constructs the root http.Handler: stores, services, routes and the
// middleware chain.
func New(cfg config.Config, db *gorm.DB, notifier notify.Notifier, log *logrus.Logger) http.Handler {
	kv := kvstore.New(db)
	repos := services.NewRepos(kv)
	settings := services.NewSettings(kv, DefaultConfiguration(cfg))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.Timezone).Warn("falling back to local timezone")
		loc = time.Local
	}

	alertSvc := services.NewAlertService(repos, notifier, log)
	orderSvc := services.NewOrderService(repos, alertSvc, log)
	paymentSvc := services.NewPaymentService(repos, settings, log)
	closingSvc := services.NewClosingService(repos, loc)
	productSvc := services.NewProductService(repos)
	tableSvc := services.NewTableService(repos)
	userSvc := services.NewUserService(kv, repos, log)

	tokens := auth.NewManager(cfg.JWTSecret, 12*time.Hour)

	oh := handlers.NewOrderHandler(orderSvc)
	ph := handlers.NewPaymentHandler(paymentSvc)
	ch := handlers.NewClosingHandler(closingSvc)
	ah := handlers.NewAlertHandler(alertSvc)
	prh := handlers.NewProductHandler(productSvc)
	th := handlers.NewTableHandler(tableSvc)
	uh := handlers.NewUserHandler(userSvc)
	cfh := handlers.NewConfigurationHandler(settings)
	authh := handlers.NewAuthHandler(userSvc, tokens)

	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth endpoints. Signup stays open for customer self-service; the
	// handler gates staff roles on an admin token.
	mux.HandleFunc("POST /auth/login", authh.Login)
	mux.HandleFunc("POST /auth/signup", authh.Signup)
	mux.HandleFunc("GET /auth/session", authh.Session)

	staff := auth.RequireRole(models.RoleAdmin, models.RoleWaiter, models.RoleCashier, models.RoleCook)
	settle := auth.RequireRole(models.RoleAdmin, models.RoleCashier)
	admin := auth.RequireRole(models.RoleAdmin)

	// Orders
	mux.Handle("GET /orders", staff(http.HandlerFunc(oh.List)))
	mux.Handle("GET /orders/{id}", staff(http.HandlerFunc(oh.Get)))
	mux.Handle("POST /orders", staff(http.HandlerFunc(oh.Create)))
	mux.Handle("PUT /orders/{id}", staff(http.HandlerFunc(oh.Update)))

	// Payments and reconciliation
	mux.Handle("POST /payments", settle(http.HandlerFunc(ph.Process)))
	mux.Handle("GET /payments", settle(http.HandlerFunc(ph.List)))
	mux.Handle("POST /cash-closing", settle(http.HandlerFunc(ch.Generate)))
	mux.Handle("GET /cash-closings", settle(http.HandlerFunc(ch.List)))

	// Alerts
	mux.Handle("GET /alerts", staff(http.HandlerFunc(ah.List)))
	mux.Handle("PUT /alerts/{id}/read", staff(http.HandlerFunc(ah.MarkRead)))

	// Inventory and floor plan
	mux.Handle("GET /products", auth.RequireAuth(http.HandlerFunc(prh.List)))
	mux.Handle("POST /products", admin(http.HandlerFunc(prh.Create)))
	mux.Handle("PUT /products/{id}", admin(http.HandlerFunc(prh.Update)))
	mux.Handle("DELETE /products/{id}", admin(http.HandlerFunc(prh.Delete)))
	mux.Handle("GET /tables", staff(http.HandlerFunc(th.List)))
	mux.Handle("POST /tables", admin(http.HandlerFunc(th.Create)))
	mux.Handle("PUT /tables/{id}", staff(http.HandlerFunc(th.Update)))

	// Accounts and configuration
	mux.Handle("GET /profile", auth.RequireAuth(http.HandlerFunc(uh.Profile)))
	mux.Handle("PUT /profile", auth.RequireAuth(http.HandlerFunc(uh.UpdateProfile)))
	mux.Handle("POST /profile/password", auth.RequireAuth(http.HandlerFunc(authh.ChangePassword)))
	mux.Handle("GET /users", admin(http.HandlerFunc(uh.List)))
	mux.Handle("PUT /users/{id}", admin(http.HandlerFunc(uh.Update)))
	mux.Handle("GET /configuration", auth.RequireAuth(http.HandlerFunc(cfh.Get)))
	mux.Handle("PUT /configuration", admin(http.HandlerFunc(cfh.Put)))

	var handler http.Handler = mux
	handler = tokens.Middleware(userSvc.IsActive)(handler)
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(log)(handler)
	handler = middleware.Recover(log)(handler)
	return handler
}
