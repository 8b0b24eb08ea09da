package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"catalogue-service/config"
	"catalogue-service/internal/api"
	"catalogue-service/internal/broker"
	"catalogue-service/internal/catalog"
	"catalogue-service/internal/redisclient"
	"catalogue-service/internal/relay"
	"catalogue-service/internal/service"
	"catalogue-service/internal/store"
	"catalogue-service/internal/util"
	"catalogue-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	_ service.SessionStore   = (*redisclient.Client)(nil)
	_ service.EventPublisher = (*broker.EventPublisher)(nil)
	_ worker.MessageSource   = (*broker.Consumer)(nil)
	_ worker.LeadSubmitter   = (*relay.Client)(nil)
	_ worker.LeadRecorder    = (*store.Store)(nil)
	_ api.LeadReader         = (*store.Store)(nil)
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting catalogue service")

	tp, err := util.InitTracer("catalogue-service", cfg.Server.Env, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	cat, err := loadCatalogue(cfg.Catalogue.Path)
	if err != nil {
		logger.Fatal("Failed to load catalogue", zap.Error(err))
	}
	for _, issue := range cat.Validate() {
		logger.Warn("Catalogue issue", zap.String("issue", issue.String()))
	}
	logger.Info("Catalogue loaded",
		zap.Int("brands", len(cat.ListBrands())),
		zap.Int("products", len(cat.ListProducts())))

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicLeads)
	defer producer.Close()
	logger.Info("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogService := service.NewCatalogService(cat)
	sessionService := service.NewSessionService(
		redisClient,
		eventPublisher,
		catalogService,
		cfg.Session.TTL,
		cfg.Session.LockTTL,
	)

	leadConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicLeads, cfg.Kafka.ConsumerGroup)
	leadWorker := worker.NewLeadWorker(leadConsumer, relay.NewClient(cfg.Relay), db)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(sessionService, catalogService, db, map[string]api.Pinger{
		"postgres": db,
		"redis":    redisClient,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := leadWorker.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
		if err := leadWorker.Stop(); err != nil {
			logger.Error("Error stopping lead worker", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Service stopped with error", zap.Error(err))
	}

	logger.Info("Server exited")
}

func loadCatalogue(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
