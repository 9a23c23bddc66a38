package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/prospector/internal/config"
	"github.com/xavierca1/prospector/internal/infra/database"
	"github.com/xavierca1/prospector/internal/infra/http/handlers"
	"github.com/xavierca1/prospector/internal/infra/http/middleware"
	"github.com/xavierca1/prospector/internal/infra/integration/browser"
	"github.com/xavierca1/prospector/internal/infra/integration/gemini"
	"github.com/xavierca1/prospector/internal/infra/integration/hubspot"
	"github.com/xavierca1/prospector/internal/infra/integration/salesforce"
	"github.com/xavierca1/prospector/internal/infra/integration/webhook"
	"github.com/xavierca1/prospector/internal/infra/logging"
	"github.com/xavierca1/prospector/internal/infra/mail"
	"github.com/xavierca1/prospector/internal/infra/persistence"
	"github.com/xavierca1/prospector/internal/infra/queue"
	"github.com/xavierca1/prospector/internal/infra/worker"
	"github.com/xavierca1/prospector/internal/resilience"
	"github.com/xavierca1/prospector/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage: local KV first, Postgres mirror when reachable
	local, err := openLocalKV(cfg)
	if err != nil {
		logger.Error("failed to open local store", "store", cfg.Store.Local, "error", err)
		os.Exit(1)
	}

	storeOpts := []persistence.Option{persistence.WithLogger(logger)}
	var dbPinger handlers.Pinger
	if cfg.Database.URL != "" {
		db, err := database.NewDBConnection(cfg.Database.Driver, cfg.Database.URL)
		if err == nil {
			if err = database.Migrate(db); err != nil {
				db.Close()
			}
		}
		if err != nil {
			logger.Warn("remote database unavailable, running local only", "error", err)
		} else {
			defer db.Close()
			dbPinger = db
			storeOpts = append(storeOpts, persistence.WithRemote(database.NewWorkspaceMirror(db, cfg.OwnerKey())))
		}
	}
	store := persistence.NewStore(local, storeOpts...)
	defer store.Close()

	// 2. Gateways
	geminiCfg := gemini.Config{
		BaseURL:        cfg.AI.BaseURL,
		SearchModel:    cfg.AI.SearchModel,
		ReasoningModel: cfg.AI.ReasoningModel,
		Timeout:        cfg.AI.Timeout,
	}
	ai := usecase.AIProvider{
		NewAI:      func(key string) usecase.LeadAI { return gemini.NewClient(key, geminiCfg) },
		DefaultKey: cfg.AI.APIKey,
	}
	hubspotClient := hubspot.NewClient("", cfg.CRM.Timeout)
	salesforceClient := salesforce.NewClient(cfg.CRM.Timeout)
	webhookClient := webhook.NewClient(cfg.CRM.Timeout)
	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass)
	shots := browser.New(cfg.Browser.Bin, 0)
	defer shots.Close()

	// 3. Workspace
	ws := usecase.NewWorkspace(store.Leads(), store.Profile(), store.History(), cfg.Owner.Email,
		usecase.WithOfflineHook(store.SetOffline),
		usecase.WithWorkspaceLogger(logger),
	)
	if cfg.Offline {
		ws.SetOffline(true)
	}
	ws.Load(ctx)

	// 4. UseCases
	policy := resilience.Policy{Retries: cfg.AI.MaxRetries, Delay: cfg.AI.RetryDelay, Logger: logger}
	metrics := middleware.Recorder{}

	searchUC := usecase.NewSearchLeadsUseCase(ws, ai, policy, metrics)
	enrichUC := usecase.NewEnrichLeadUseCase(ws, ai, shots, policy, metrics)
	crmUC := usecase.NewCRMSyncUseCase(ws, hubspotClient, salesforceClient, webhookClient, cfg.CRM.SimulateDelay, metrics)
	templateUC := usecase.NewTemplateUseCase(ws, store.Templates(), enrichUC)
	outreachUC := usecase.NewSendOutreachUseCase(ws, templateUC, mailSender, metrics)
	settingsUC := usecase.NewSettingsUseCase(ws)
	bulkUC := usecase.NewBulkUseCase(ws, enrichUC, crmUC, nil)

	// 5. Queue and workers
	health := handlers.NewHealthHandler(dbPinger, nil)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, bulk jobs run in process", "error", err)
		} else {
			defer rabbitMQ.Close()
			bulkUC.Publisher = queue.NewProducer(rabbitMQ.Ch)
			health.RabbitMQ = rabbitMQ.Conn

			bulkWorker := queue.NewWorker(rabbitMQ.Ch, bulkUC)
			go func() {
				if err := bulkWorker.Start(ctx); err != nil {
					logger.Error("bulk worker stopped", "error", err)
				}
			}()
		}
	}

	statusWorker := worker.NewCRMStatusWorker(ws, crmUC, cfg.CRM.StatusInterval)
	go statusWorker.Start(ctx)

	// 6. Handlers
	health.AIKey = cfg.AI.APIKey != ""
	health.LocalKV = cfg.Store.Local
	health.Offline = ws.Offline

	aiLimiter := handlers.NewRateLimiter(30, time.Minute)
	leadHandler := handlers.NewLeadHandler(ws, enrichUC, crmUC, outreachUC, bulkUC)
	leadHandler.Limiter = aiLimiter
	searchHandler := handlers.NewSearchHandler(searchUC, ws)
	searchHandler.Limiter = aiLimiter
	templateHandler := handlers.NewTemplateHandler(templateUC, enrichUC)
	templateHandler.Limiter = aiLimiter

	router := newRouter(routes{
		Health:    health,
		Leads:     leadHandler,
		Search:    searchHandler,
		Profile:   handlers.NewProfileHandler(settingsUC, ws),
		Templates: templateHandler,
		Session:   handlers.NewSessionHandler(ws),
	})

	// 7. Server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("prospector API listening", "port", cfg.Server.Port, "offline", ws.Offline(), "store", cfg.Store.Local)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	bulkUC.Wait()
}

func openLocalKV(cfg *config.Config) (persistence.KV, error) {
	switch cfg.Store.Local {
	case "redis":
		return persistence.NewRedisKV(cfg.Store.RedisURL, cfg.OwnerKey())
	case "memory":
		return persistence.NewMemoryKV(), nil
	default:
		return persistence.NewSQLiteKV(cfg.Store.SQLitePath)
	}
}
