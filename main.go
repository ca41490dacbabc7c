package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/cliparse"
	"github.com/danielhkuo/dcon-scoreboard/db"
	"github.com/danielhkuo/dcon-scoreboard/logging"
	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/observability"
	"github.com/danielhkuo/dcon-scoreboard/router"
	"github.com/danielhkuo/dcon-scoreboard/seed"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

func main() {
	if err := run(); err != nil {
		zap.L().Error("fatal", zap.Error(err))
		zap.L().Sync()
		os.Exit(1)
	}
}

func run() (err error) {
	// A missing .env is fine; real deployments use the environment
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(2)
	}

	logger, _, err := logging.Init(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		zap.L().Warn("sentry disabled", zap.Error(err))
	}
	defer flush()
	defer func() { observability.CaptureErr(err) }()

	// Connect to PostgreSQL
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer dbConn.Close()

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = dbConn.PingContext(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	version, _ := db.Version(dbConn)
	zap.L().Info("database schema ready", zap.Int64("version", version))

	st := store.New(dbConn)
	ctx = context.Background()

	if cfg.SeedSchedule {
		res, err := seed.SeedSchedule(ctx, st, cfg, cfg.SeedClear)
		if err != nil {
			return err
		}
		zap.L().Info("seed complete", zap.Int64("deleted", res.Deleted), zap.Int("created", res.Created))
		return nil
	}

	if _, err := seed.EnsureSuperuser(ctx, st, cfg); err != nil {
		return err
	}
	if n, err := st.PurgeExpiredTokens(ctx, time.Now()); err != nil {
		zap.L().Warn("failed to purge expired tokens", zap.Error(err))
	} else if n > 0 {
		zap.L().Info("purged expired tokens", zap.Int64("count", n))
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.Recover(middleware.CORS(cfg.CORSOrigins)(mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	// Start server
	zap.L().Info("listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server closed: %w", err)
	}
	zap.L().Info("server closed")
	return nil
}
