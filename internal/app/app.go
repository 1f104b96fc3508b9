// Package app assembles the service: repositories, external clients,
// usecase services, the HTTP server and the scheduler.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/wibowo/causal-football/external/footballdata"
	"github.com/wibowo/causal-football/external/telegram"
	"github.com/wibowo/causal-football/internal/config"
	"github.com/wibowo/causal-football/internal/domain/audit"
	"github.com/wibowo/causal-football/internal/domain/match"
	"github.com/wibowo/causal-football/internal/domain/prediction"
	cacherepo "github.com/wibowo/causal-football/internal/infrastructure/repository/cache"
	"github.com/wibowo/causal-football/internal/infrastructure/repository/memory"
	"github.com/wibowo/causal-football/internal/infrastructure/repository/postgres"
	"github.com/wibowo/causal-football/internal/interfaces/httpapi"
	"github.com/wibowo/causal-football/internal/platform/cache"
	"github.com/wibowo/causal-football/internal/platform/logging"
	"github.com/wibowo/causal-football/internal/platform/resilience"
	"github.com/wibowo/causal-football/internal/usecase"
	"github.com/wibowo/causal-football/internal/worker"
)

// Application holds the long-lived pieces main needs to start and stop.
// Scheduler is nil when SCHEDULER_ENABLED=false, DB is nil in memory mode.
type Application struct {
	Server    *http.Server
	Scheduler *worker.Scheduler
	DB        *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger, slogger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if slogger == nil {
		slogger = slog.Default()
	}

	var (
		db             *sqlx.DB
		auditRepo      audit.Repository
		matchRepo      match.Repository
		predictionRepo prediction.Repository
		dbChecker      httpapi.DatabaseChecker
		health         worker.HealthCheck
	)

	if cfg.DBURL != "" {
		opened, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		db = opened

		systemRepo := postgres.NewSystemRepository(db)
		auditRepo = postgres.NewAuditRepository(db)
		matchRepo = postgres.NewMatchRepository(db)
		predictionRepo = postgres.NewPredictionRepository(db)
		dbChecker = systemRepo
		health = systemRepo.Ping
	} else {
		logger.Warn("DB_URL not set, using in-memory repositories")
		auditRepo = memory.NewAuditRepository()
		matchRepo = memory.NewMatchRepository()
		predictionRepo = memory.NewPredictionRepository()
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		predictionRepo = cacherepo.NewPredictionRepository(predictionRepo, store)
		matchRepo = cacherepo.NewMatchRepository(matchRepo, store)
	}

	notifier := telegram.NewClient(telegram.ClientConfig{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		Timeout:  cfg.TelegramTimeout,
		Logger:   logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.TelegramCircuitEnabled,
			FailureThreshold: cfg.TelegramCircuitFailureCount,
			OpenTimeout:      cfg.TelegramCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.TelegramCircuitHalfOpenMaxRq,
		},
	})
	if !notifier.Configured() {
		logger.Warn("telegram not configured, digests will not be delivered")
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		APIKey:     cfg.FootballDataAPIKey,
		Timezone:   cfg.FootballDataTimezone,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCnt,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMax,
		},
	})

	ingestionSvc := usecase.NewIngestionService(auditRepo)
	predictionSvc := usecase.NewPredictionService(predictionRepo)
	backfillSvc := usecase.NewBackfillService(provider, matchRepo, auditRepo)
	digestSvc := usecase.NewDigestService(notifier)

	handler := httpapi.NewHandler(
		ingestionSvc,
		predictionSvc,
		backfillSvc,
		digestSvc,
		notifier,
		dbChecker,
		cfg.MissingKeys(),
		logger,
	)
	router := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins, cfg.APIToken, cfg.IngestToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var scheduler *worker.Scheduler
	if cfg.SchedulerEnabled {
		scheduler = worker.NewScheduler(
			worker.SchedulerConfig{
				LeagueID:   cfg.DigestLeagueID,
				PushHour:   cfg.PushHourUTC,
				PushMinute: cfg.PushMinuteUTC,
			},
			provider,
			predictionSvc,
			digestSvc,
			notifier,
			health,
			logger,
		)
	}

	return &Application{Server: server, Scheduler: scheduler, DB: db}, nil
}
