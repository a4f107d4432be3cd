// Command server runs the fault translator HTTP service.
//
//	@title			Fault Translator API
//	@version		1.0
//	@description	Translates errors and panics into {status, message} responses and journals them as incidents.
//	@BasePath		/api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-fault-translator/docs"
	"github.com/tbourn/go-fault-translator/internal/config"
	"github.com/tbourn/go-fault-translator/internal/faults"
	httpapi "github.com/tbourn/go-fault-translator/internal/http"
	"github.com/tbourn/go-fault-translator/internal/observability"
	"github.com/tbourn/go-fault-translator/internal/repo"
	"github.com/tbourn/go-fault-translator/internal/services"
	"github.com/tbourn/go-fault-translator/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	setupLogging(cfg)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging(cfg config.Config) {
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", cfg.OTEL.ServiceName).Logger()
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		return err
	}

	faultSink, err := observability.NewFaultSink(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	sinks := []faults.Sink{faults.NewLogSink(log.Logger, cfg.Faults.LogStacks), faultSink}

	var (
		db      *gorm.DB
		journal *services.Journal
	)
	if cfg.Journal.Enabled {
		if db, err = openJournalDB(cfg); err != nil {
			return err
		}
		journal = services.NewJournal(db, httpapi.IncidentRepo(), cfg.Journal.Buffer, log.Logger)
		sinks = append(sinks, journal)
	}

	tr := faults.NewTranslator(
		faults.WithSink(faults.Multi(sinks...)),
		faults.WithDefaultLocale(cfg.Faults.Locale),
	)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, tr, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("version", appVersion).
			Str("locale", cfg.Faults.Locale.String()).
			Bool("journal", cfg.Journal.Enabled).
			Msg("fault translator started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if journal != nil {
		if err := journal.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		log.Info().
			Uint64("written", journal.Written()).
			Uint64("dropped", journal.Dropped()).
			Msg("journal closed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func openJournalDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, err
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
