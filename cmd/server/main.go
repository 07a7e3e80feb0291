package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafe-storefront/config"
	"cafe-storefront/internal/api"
	"cafe-storefront/internal/apiclient"
	"cafe-storefront/internal/broker"
	"cafe-storefront/internal/redisclient"
	"cafe-storefront/internal/render"
	"cafe-storefront/internal/service"
	"cafe-storefront/internal/store"
	"cafe-storefront/internal/util"
	"cafe-storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting café storefront",
		zap.String("api", cfg.API.BaseURL),
		zap.String("view_store", cfg.Store.Backend))

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	var (
		views   store.ViewStore
		locks   store.Locker
		sweeper *worker.ViewSweeper
		ready   api.ReadinessCheck
	)

	switch cfg.Store.Backend {
	case "redis":
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, util.ServiceName)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")

		views = store.NewRedisStore(redisClient, cfg.Store.ViewTTL)
		locks = store.NewRedisLocker(redisClient)
		ready = redisClient.Ping
	default:
		memory := store.NewMemoryStore(cfg.Store.ViewTTL)
		views = memory
		locks = store.NewMemoryLocker()
		sweeper = worker.NewViewSweeper(memory, cfg.Store.SweepInterval)
	}

	var sink broker.Sink = broker.NoopSink{}
	if len(cfg.Kafka.Brokers) > 0 {
		sink = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		log.Println("Kafka producer initialized")
	}
	defer sink.Close()

	eventPublisher := broker.NewEventPublisher(sink)
	backend := apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	storefront := service.NewStorefront(views, locks, backend, eventPublisher, service.Options{
		AlertTTL:        cfg.Business.AlertTTL,
		SubmitLockTTL:   cfg.Business.SubmitLockTTL,
		LineQuantityCap: cfg.Business.LineQuantityCap,
	})

	renderer, err := render.NewRenderer(cfg.Business.DefaultImagePath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if sweeper != nil {
		go func() {
			if err := sweeper.Start(workerCtx); err != nil {
				log.Printf("View sweeper error: %v", err)
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(storefront, renderer, cfg.Server.StaticDir, ready)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	if sweeper != nil {
		sweeper.Wait()
	}

	log.Println("Server exited")
}
