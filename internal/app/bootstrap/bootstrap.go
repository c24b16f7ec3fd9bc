package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	disbursementengine "remit/contexts/payroll-core/disbursement-engine"
	engineworkers "remit/contexts/payroll-core/disbursement-engine/application/workers"
	engineports "remit/contexts/payroll-core/disbursement-engine/ports"
	registryservice "remit/contexts/payroll-core/registry-service"
	registrymemory "remit/contexts/payroll-core/registry-service/adapters/memory"
	registrypostgres "remit/contexts/payroll-core/registry-service/adapters/postgres"
	registryports "remit/contexts/payroll-core/registry-service/ports"
	dispatchgateway "remit/contexts/settlement/dispatch-gateway"
	"remit/internal/platform/config"
	"remit/internal/platform/db"
	"remit/internal/platform/httpserver"
	"remit/internal/platform/ledger"
	"remit/internal/platform/messaging"
	"remit/internal/platform/router"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// repository is the full persistence surface both processes wire against.
type repository interface {
	registryports.Repository
	registryports.OutboxWriter
	registryports.OutboxRepository
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	automation   engineworkers.AutomationJob
	outboxRelay  engineworkers.OutboxRelay
	checkCron    string
	enableRelay  bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	repo, pg, clock, idGen, err := buildRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	wiring := buildModules(cfg, repo, clock, idGen, logger)
	server := httpserver.New(wiring.registry, wiring.engine, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	repo, pg, clock, idGen, err := buildRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	wiring := buildModules(cfg, repo, clock, idGen, logger)

	// Local deployments run without Kafka; events stay on the in-process bus.
	var eventPublisher engineports.EventPublisher
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		eventPublisher = messaging.NewBus(logger)
	} else {
		kafkaPublisher, err := messaging.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, err
		}
		eventPublisher = kafkaPublisher
	}

	return &WorkerApp{
		postgres: pg,
		automation: engineworkers.AutomationJob{
			Trigger: wiring.engine.Trigger,
			Logger:  logger,
		},
		outboxRelay: engineworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: eventPublisher,
			Clock:     clock,
			Topic:     cfg.OutboxTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		checkCron:    cfg.CheckCron,
		enableRelay:  cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func buildRepository(cfg config.Config, logger *slog.Logger) (repository, *db.Postgres, registryports.Clock, registryports.IDGenerator, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		store := registrymemory.NewStore(cfg.DisburseInterval)
		return store, nil, store, store, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := registrypostgres.Migrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, nil, nil, nil, err
	}
	repo := registrypostgres.NewRepository(pg.DB, logger)
	return repo, pg, registrypostgres.SystemClock{}, registrypostgres.UUIDGenerator{}, nil
}

// moduleWiring bundles the three context modules with the in-process ledger
// and router simulations backing them.
type moduleWiring struct {
	registry registryservice.Module
	engine   disbursementengine.Module
	gateway  dispatchgateway.Module
	ledger   *ledger.Memory
	router   *router.Memory
}

func buildModules(
	cfg config.Config,
	repo repository,
	clock registryports.Clock,
	idGen registryports.IDGenerator,
	logger *slog.Logger,
) moduleWiring {
	// The external settlement ledger and the cross-domain router are simulated
	// in process. Production deployments swap these two adapters.
	tokenLedger := ledger.NewMemory()
	tokenLedger.Mint(cfg.EngineAccount, cfg.FeeAsset, 1_000_000)
	tokenRouter := router.NewMemory(tokenLedger, cfg.FeeAsset)

	registryModule := registryservice.NewModule(registryservice.Dependencies{
		Repository:      repo,
		Ledger:          tokenLedger,
		Outbox:          repo,
		Clock:           clock,
		IDGenerator:     idGen,
		EngineAccount:   cfg.EngineAccount,
		TreasuryAccount: cfg.TreasuryAccount,
		PayAsset:        cfg.PayAsset,
		RegistrationFee: cfg.RegistrationFee,
		Logger:          logger,
	})

	gatewayModule := dispatchgateway.NewModule(dispatchgateway.Dependencies{
		Router:          tokenRouter,
		Ledger:          tokenLedger,
		Eligibility:     repo,
		Outbox:          repo,
		Clock:           clock,
		IDGenerator:     idGen,
		EngineAccount:   cfg.EngineAccount,
		FeeAsset:        cfg.FeeAsset,
		GasLimit:        cfg.DispatchGasLimit,
		AllowOutOfOrder: cfg.AllowOutOfOrder,
		Logger:          logger,
	})

	engineModule := disbursementengine.NewModule(disbursementengine.Dependencies{
		Directory:     registryDirectory{repo: repo},
		Ledger:        tokenLedger,
		Dispatcher:    gatewayModule.Service,
		Outbox:        repo,
		Clock:         clock,
		IDGenerator:   idGen,
		EngineAccount: cfg.EngineAccount,
		PayAsset:      cfg.PayAsset,
		Logger:        logger,
	})

	return moduleWiring{
		registry: registryModule,
		engine:   engineModule,
		gateway:  gatewayModule,
		ledger:   tokenLedger,
		router:   tokenRouter,
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

// Handler exposes the HTTP mux for in-process tests.
func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	parser := cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	scheduler := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := scheduler.AddFunc(w.checkCron, func() {
		_ = w.automation.RunOnce(ctx)
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"check_cron", w.checkCron,
		"poll_interval", w.pollInterval.String(),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if w.enableRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
