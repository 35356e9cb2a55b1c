package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/wickethq/fantasy-cricket/internal/config"
	"github.com/wickethq/fantasy-cricket/internal/infrastructure/notifier"
	"github.com/wickethq/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/wickethq/fantasy-cricket/internal/interfaces/httpapi"
	idgen "github.com/wickethq/fantasy-cricket/internal/platform/id"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
	"github.com/wickethq/fantasy-cricket/internal/platform/resilience"
	"github.com/wickethq/fantasy-cricket/internal/usecase"
)

// App bundles the wired HTTP server, background schedulers and the handles
// that need explicit shutdown.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler
	DB        *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	matchRepo := postgres.NewMatchRepository(db)
	squadRepo := postgres.NewSquadRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	scorecardRepo := postgres.NewScorecardRepository(db)
	leaderboardRepo := postgres.NewLeaderboardRepository(db)
	profileRepo := postgres.NewProfileRepository(db)

	sender, err := buildSender(cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	lockSvc := usecase.NewLockService(
		matchRepo,
		squadRepo,
		snapshotRepo,
		idgen.NewRandomGenerator(),
		cfg.LockMaxWorkers,
		logger,
	)
	pointsSvc := usecase.NewPointsService(
		matchRepo,
		snapshotRepo,
		scorecardRepo,
		leaderboardRepo,
		nil,
		logger,
	)
	notificationSvc := usecase.NewNotificationService(
		matchRepo,
		profileRepo,
		sender,
		usecase.NotificationConfig{
			UrgencyWindow:     cfg.NotifyUrgencyWindow,
			DigestWindowStart: cfg.DigestWindowStart,
			DigestWindowWidth: cfg.DigestWindowWidth,
			MaxWorkers:        cfg.NotifyMaxWorkers,
		},
		logger,
	)
	scheduleSvc := usecase.NewScheduleService(matchRepo, snapshotRepo, leaderboardRepo, logger)

	handler := httpapi.NewHandler(lockSvc, pointsSvc, notificationSvc, scheduleSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	scheduler := NewScheduler(lockSvc, notificationSvc, cfg.LockRunInterval, cfg.NotifyRunInterval, logger)

	return &App{
		Server:    server,
		Scheduler: scheduler,
		DB:        db,
	}, nil
}

func buildSender(cfg config.Config, logger *logging.Logger) (usecase.NotificationSender, error) {
	if !cfg.PushEnabled {
		logger.Info("push gateway disabled, using noop sender")
		return usecase.NewNoopSender(), nil
	}

	var breaker *resilience.CircuitBreaker
	if cfg.PushCircuitEnabled {
		breakerCfg := resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.PushCircuitEnabled,
			FailureThreshold: cfg.PushCircuitFailureCount,
			OpenTimeout:      cfg.PushCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PushCircuitHalfOpenReq,
		})
		breaker = resilience.NewCircuitBreaker(
			breakerCfg.FailureThreshold,
			breakerCfg.OpenTimeout,
			breakerCfg.HalfOpenMaxReq,
		)
	}

	client, err := notifier.NewPushClient(notifier.PushClientConfig{
		BaseURL:        cfg.PushBaseURL,
		APIKey:         cfg.PushAPIKey,
		Timeout:        cfg.PushTimeout,
		Retries:        cfg.PushRetries,
		CircuitBreaker: breaker,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build push client: %w", err)
	}
	return client, nil
}
