package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/investments-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/investments-backend/internal/adapter/http"
	"github.com/simaogato/investments-backend/internal/adapter/repository/memory"
	"github.com/simaogato/investments-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/investments-backend/internal/config"
	"github.com/simaogato/investments-backend/internal/domain"
	"github.com/simaogato/investments-backend/internal/logger"
	"github.com/simaogato/investments-backend/internal/metrics"
	"github.com/simaogato/investments-backend/internal/usecase/dashboard"
	"github.com/simaogato/investments-backend/internal/usecase/investment"
	"github.com/simaogato/investments-backend/internal/usecase/investor"
	"github.com/simaogato/investments-backend/internal/usecase/seeder"
)

func main() {
	// 1. Load configuration and logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	if strings.EqualFold(cfg.Log.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLog); err != nil {
		appLog.Error("Server exited with error", "error", err)
		appLog.Sync()
		log.Fatalf("Server exited with error: %v", err)
	}
	appLog.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLog *logger.Logger) error {
	// 2. Setup storage
	store, err := openStorage(ctx, cfg.Storage, appLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			appLog.Warn("Failed to close storage", "error", err)
		}
	}()

	// 3. Seed the bank catalog used to derive bank codes
	created, err := seeder.NewBankSeeder(store.banks).Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed bank catalog: %w", err)
	}
	appLog.Info("Bank catalog seeded", "created", created)

	// 4. Initialize Services (Use Cases)
	m := metrics.New()
	investorService := investor.NewInvestorService(store.investors).WithRecorder(m)
	investmentService := investment.NewInvestmentService(store.investors, store.investments, store.banks).WithRecorder(m)
	dashboardService := dashboard.NewDashboardService(store.investors, store.investments)

	// 5. HTTP server
	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		InvestorService:   investorService,
		InvestmentService: investmentService,
		DashboardService:  dashboardService,
		Logger:            appLog,
		Metrics:           m,
		APIToken:          cfg.Server.APIToken,
		CORSOrigins:       cfg.Server.CORSOrigins,
		Ready:             store.pinger.PingContext,
	})
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. gRPC server with health reporting
	healthServer := grpcadapter.NewHealthServer(store.pinger, cfg.Server.HealthInterval(), appLog).WithRecorder(m)
	grpcServer := grpcadapter.NewServer(cfg.Server.APIToken, healthServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	if cfg.Server.APIToken == "" {
		appLog.Warn("No API token configured, write endpoints are unauthenticated")
	}

	// 7. Run until a signal arrives or a server fails
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		appLog.Info("gRPC server listening", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpclib.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return healthServer.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down gracefully...")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		gracefulStop(shutdownCtx, grpcServer)
		appLog.Info("Servers stopped")
		return err
	})

	return g.Wait()
}

// gracefulStop waits for in-flight RPCs, forcing a stop once ctx expires
func gracefulStop(ctx context.Context, server *grpclib.Server) {
	done := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		server.Stop()
	}
}

type storage struct {
	investors   domain.InvestorRepository
	investments domain.InvestmentRepository
	banks       domain.BankRepository
	pinger      grpcadapter.Pinger
	close       func() error
}

func openStorage(ctx context.Context, cfg config.StorageConfig, appLog *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		appLog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			investors:   store.Investors(),
			investments: store.Investments(),
			banks:       store.Banks(),
			pinger:      store,
			close:       func() error { return nil },
		}, nil
	}

	db, err := connectPostgres(ctx, cfg, appLog)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	appLog.Info("Database ready", "host", cfg.Host, "name", cfg.Name)

	return &storage{
		investors:   postgres.NewInvestorRepository(db),
		investments: postgres.NewInvestmentRepository(db),
		banks:       postgres.NewBankRepository(db),
		pinger:      db,
		close:       db.Close,
	}, nil
}

// connectPostgres retries while the database is still starting up
func connectPostgres(ctx context.Context, cfg config.StorageConfig, appLog *logger.Logger) (*postgres.DB, error) {
	var lastErr error
	for attempt := 0; attempt <= cfg.ConnectRetries; attempt++ {
		if attempt > 0 {
			appLog.Warn("Database not ready, retrying", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay()):
			}
		}

		db, err := postgres.NewDB(ctx, cfg.ConnectionString())
		if err == nil {
			return db, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.ConnectRetries+1, lastErr)
}
