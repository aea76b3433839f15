package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diewo77/shirt-orders/auth"
	"github.com/diewo77/shirt-orders/internal/config"
	"github.com/diewo77/shirt-orders/internal/db"
	"github.com/diewo77/shirt-orders/internal/logging"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/diewo77/shirt-orders/internal/router"
	"github.com/diewo77/shirt-orders/view"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedSampleFlag  = flag.Bool("seed-sample", false, "Insert demo orders and exit")
	importFlag      = flag.String("import", "", "Import orders from an .xlsx workbook and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.Setup(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.Open(cfg.Database.URL, cfg.Database.Debug)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(dbConn); err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		zap.L().Info("migrations completed")
		return
	}

	if cfg.Admin.Enabled() {
		if err := db.EnsureAdmin(dbConn, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
			zap.L().Fatal("bootstrap admin failed", zap.Error(err))
		}
	}

	loc := loadLocation(cfg.App.Timezone)
	routerCfg := router.NewRouterConfig(dbConn, cfg.App, loc)

	if *seedSampleFlag {
		n, err := db.SeedSampleOrders(context.Background(), dbConn, cfg.App.DefaultUnitPrice, time.Now().UTC())
		if err != nil {
			zap.L().Fatal("seeding failed", zap.Error(err))
		}
		zap.L().Info("sample orders inserted", zap.Int("count", n))
		return
	}

	if *importFlag != "" {
		if err := importFile(dbConn, routerCfg, cfg.Admin.Email, *importFlag); err != nil {
			zap.L().Fatal("import failed", zap.String("file", *importFlag), zap.Error(err))
		}
		return
	}

	auth.Init(cfg.App.SessionSecret, cfg.App.SessionSecure)
	verifier := auth.NewCachedVerifier(func(ctx context.Context, id uint) (bool, error) {
		var count int64
		if err := dbConn.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return false, fmt.Errorf("count admins: %w", err)
		}
		return count > 0, nil
	}, time.Minute)
	auth.SetAdminVerifier(verifier.Verify)
	view.Configure(cfg.App.CurrencySymbol, loc, cfg.App.Dev)

	appHandler := NewApp(dbConn, routerCfg)

	// Create server with config timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zap.L().Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("error during shutdown", zap.Error(err))
	}
	zap.L().Info("server stopped gracefully")
}

// loadLocation resolves the display timezone, falling back to UTC.
func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("unknown timezone, using UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

// importFile loads a workbook on behalf of the admin with the given email,
// or the first admin when email is empty.
func importFile(dbConn *gorm.DB, routerCfg *router.RouterConfig, email, path string) error {
	var admin models.Admin
	q := dbConn.Order("id")
	if email != "" {
		q = q.Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	}
	if err := q.First(&admin).Error; err != nil {
		return fmt.Errorf("no admin to import as: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := routerCfg.Importer.Import(context.Background(), admin.ID, f)
	if err != nil {
		return err
	}
	zap.L().Info("workbook imported",
		zap.String("file", path),
		zap.Int("orders", res.Created),
		zap.Int("quantity", res.Quantity))
	return nil
}
