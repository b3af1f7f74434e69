package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	controller "github.com/Itish41/InnovationTracker/controller"
	"github.com/Itish41/InnovationTracker/events"
	"github.com/Itish41/InnovationTracker/initializers"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := initializers.LoadEnv(); err != nil {
		log.Fatalf("[CRITICAL] Failed to load env: %s", err)
	}
	cfg, err := initializers.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[CRITICAL] Failed to load config: %s", err)
	}

	logger, err := initializers.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("[CRITICAL] Failed to create logger: %s", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg initializers.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := initializers.ConnectDB(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer initializers.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if err := initializers.Migrate(db, cfg.Database, logger); err != nil {
			return err
		}
	}
	if err := initializers.SeedUserTypes(db); err != nil {
		return err
	}

	opts := []services.Option{services.WithLogger(logger)}

	search, err := services.NewSearchIndexer(cfg.Search.ElasticsearchURL, cfg.Search.Index, logger)
	if err != nil {
		return err
	}
	var searcher controller.Searcher
	if search.Enabled() {
		logger.Info("Search indexing enabled", zap.String("index", cfg.Search.Index))
		opts = append(opts, services.WithIndexer(search))
		searcher = search
	}

	if cfg.Events.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			// Events are best effort; the tracker works without a broker.
			logger.Warn("Event publishing disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			logger.Info("Event publishing enabled", zap.String("exchange", cfg.Events.Exchange))
			opts = append(opts, services.WithPublisher(publisher))
		}
	}

	storage, err := services.NewObjectStorage(cfg.Storage)
	if err != nil {
		return err
	}
	uploadDir := ""
	if local, ok := storage.(*services.LocalStorage); ok {
		if err := os.MkdirAll(local.Root(), 0o755); err != nil {
			return fmt.Errorf("create upload dir: %w", err)
		}
		uploadDir = local.Root()
	}
	logger.Info("Attachment storage ready", zap.String("provider", storage.Provider()))

	store := services.NewInitiativeService(db, opts...)
	ctl := controller.NewInitiativeController(controller.Dependencies{
		Store:       store,
		Transitions: services.NewTransitionService(store),
		Contacts:    services.NewContactService(store),
		Attachments: services.NewAttachmentService(db, storage, cfg.Storage.MaxUploadBytes, opts...),
		Search:      searcher,
		DefaultSubmitter: services.UserInput{
			FirstName: "Demo",
			LastName:  "Submitter",
			Email:     cfg.Server.DefaultSubmitterEmail,
		},
		Logger: logger,
	})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := controller.SetupRouter(ctl, controller.RouterConfig{
		Env:                  cfg.Env,
		ClientURL:            cfg.Server.ClientURL,
		UploadDir:            uploadDir,
		RateLimitPerMinute:   cfg.Server.RateLimitPerMinute,
		StrictLimitPerMinute: cfg.Server.StrictLimitPerMinute,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
