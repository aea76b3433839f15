// Package router wires services and handlers into a ready-to-route set.
package router

import (
	"time"

	"github.com/diewo77/shirt-orders/internal/config"
	"github.com/diewo77/shirt-orders/internal/export"
	"github.com/diewo77/shirt-orders/internal/handlers"
	"github.com/diewo77/shirt-orders/internal/importer"
	"github.com/diewo77/shirt-orders/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds configured handlers and the services behind them.
type RouterConfig struct {
	// Auth handler
	AuthHandler *handlers.AuthHandler

	// Business handlers
	OrderHandler     *handlers.OrderHandler
	DashboardHandler *handlers.DashboardHandler
	TransferHandler  *handlers.TransferHandler

	// Services
	OrderService *services.OrderService
	QueryService *services.QueryService
	StatsService *services.StatsService
	Importer     *importer.Importer
}

// NewRouterConfig builds every service and handler on top of db.
// loc is the display timezone used by exports; nil means UTC.
func NewRouterConfig(db *gorm.DB, app config.AppConfig, loc *time.Location) *RouterConfig {
	if loc == nil {
		loc = time.UTC
	}

	orderService := services.NewOrderService(db, app.DefaultUnitPrice)
	queryService := services.NewQueryService(db)
	statsService := services.NewStatsService(db)

	exporter := export.New(app.CurrencySymbol, loc)
	workbookImporter := importer.New(orderService)

	return &RouterConfig{
		AuthHandler:      handlers.NewAuthHandler(db),
		OrderHandler:     handlers.NewOrderHandler(orderService, queryService),
		DashboardHandler: handlers.NewDashboardHandler(statsService, queryService),
		TransferHandler:  handlers.NewTransferHandler(queryService, exporter, workbookImporter),
		OrderService:     orderService,
		QueryService:     queryService,
		StatsService:     statsService,
		Importer:         workbookImporter,
	}
}
