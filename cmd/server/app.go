package main

import (
	"net/http"
	"time"

	"github.com/diewo77/shirt-orders/auth"
	"github.com/diewo77/shirt-orders/httpx"
	"github.com/diewo77/shirt-orders/i18n"
	"github.com/diewo77/shirt-orders/internal/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *router.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *router.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply global middleware: session identity + language
	handler := auth.Middleware(i18n.Middleware(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /{$}", a.landingPage)
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /healthz", a.health)

	// ─────────────────────────────────────────────────────────────────────────
	// Dashboard and reports
	// ─────────────────────────────────────────────────────────────────────────
	dh := a.routerCfg.DashboardHandler

	a.mux.Handle("GET /dashboard", a.requireAuth(http.HandlerFunc(dh.Dashboard)))
	a.mux.Handle("GET /reports", a.requireAuth(http.HandlerFunc(dh.Reports)))
	a.mux.Handle("GET /api/dashboard", a.requireAuth(http.HandlerFunc(dh.API)))

	// ─────────────────────────────────────────────────────────────────────────
	// Orders
	// ─────────────────────────────────────────────────────────────────────────
	oh := a.routerCfg.OrderHandler
	th := a.routerCfg.TransferHandler

	a.mux.Handle("GET /orders", a.requireAuth(http.HandlerFunc(oh.List)))
	a.mux.Handle("GET /api/orders", a.requireAuth(http.HandlerFunc(oh.ListJSON)))
	a.mux.Handle("GET /orders/new", a.requireAuth(http.HandlerFunc(oh.New)))
	a.mux.Handle("POST /orders", a.requireAuth(http.HandlerFunc(oh.Create)))
	a.mux.Handle("GET /orders/{id}/edit", a.requireAuth(http.HandlerFunc(oh.Edit)))
	a.mux.Handle("POST /orders/{id}", a.requireAuth(http.HandlerFunc(oh.Update)))
	a.mux.Handle("POST /orders/{id}/delete", a.requireAuth(http.HandlerFunc(oh.Delete)))

	// Import / export
	a.mux.Handle("GET /orders/export.csv", a.requireAuth(http.HandlerFunc(th.ExportCSV)))
	a.mux.Handle("GET /orders/export.xlsx", a.requireAuth(http.HandlerFunc(th.ExportXLSX)))
	a.mux.Handle("POST /orders/import", a.requireAuth(http.HandlerFunc(th.Import)))

	// ─────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth wraps a handler to require an authenticated admin.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Page handlers
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) landingPage(w http.ResponseWriter, r *http.Request) {
	if _, loggedIn := auth.AdminIDFromContext(r.Context()); loggedIn {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
		zap.L().Error("health check failed", zap.Error(err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
