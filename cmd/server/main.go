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

	"basket-service/config"
	"basket-service/internal/api"
	"basket-service/internal/broker"
	"basket-service/internal/redisclient"
	"basket-service/internal/regions"
	"basket-service/internal/service"
	"basket-service/internal/store"
	"basket-service/internal/util"
	"basket-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting basket service")

	tp, err := util.InitTracer("basket-service", cfg.Observ.JaegerEndpoint)
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

	// The external feed and Redis are both optional: without them the
	// service keeps running on synthesized demo catalogs and in-process
	// sessions, never surfacing the outage to shoppers.
	var catalogSource service.CatalogSource
	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Printf("Price feed unavailable, using demo catalogs: %v", err)
	} else {
		defer db.Close()
		catalogSource = db
		log.Println("Database connected")
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, using in-process sessions: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogTTL := time.Duration(cfg.Business.CatalogTTLSeconds) * time.Second
	basketTTL := time.Duration(cfg.Business.BasketTTLSeconds) * time.Second

	catalogService := service.NewCatalogService(catalogSource, redisClient, eventPublisher, cfg.Business.CatalogSize, catalogTTL)
	basketService := service.NewBasketService(catalogService, redisClient, eventPublisher, basketTTL)

	warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	catalogService.Warmup(warmupCtx, regions.Default())
	warmupCancel()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	orderConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders, cfg.Kafka.ConsumerGroup)
	exportWorker := worker.NewExportWorker(orderConsumer, cfg.Business.ExportDir)
	go func() {
		if err := exportWorker.Start(workerCtx); err != nil {
			log.Printf("Export worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(basketService, catalogService)
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
	exportWorker.Stop()

	log.Println("Server exited")
}
