package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"order-dashboard/config"
	"order-dashboard/internal/api"
	"order-dashboard/internal/broker"
	"order-dashboard/internal/generator"
	"order-dashboard/internal/loader"
	"order-dashboard/internal/notify"
	"order-dashboard/internal/redisclient"
	"order-dashboard/internal/service"
	"order-dashboard/internal/simulator"
	"order-dashboard/internal/util"
	"order-dashboard/internal/worker"

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
	logger.Info("Starting order dashboard", zap.String("orders_source", cfg.Orders.Source))

	tp, err := util.InitTracer("order-dashboard", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	source, closeSource, err := loader.FromConfig(cfg.Orders)
	if err != nil {
		log.Fatalf("Failed to configure orders source: %v", err)
	}
	defer closeSource()

	sinks := notify.Multi{notify.NewLogNotifier()}

	var feed api.NotificationFeed
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.FeedSize)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		sinks = append(sinks, redisClient)
		feed = redisClient
		logger.Info("Redis notification feed enabled")
	}

	var events service.EventSink
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()

		eventPublisher := broker.NewEventPublisher(producer)
		events = eventPublisher
		sinks = append(sinks, eventPublisher)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicOrder))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := notify.NewAsync(sinks, 256)
	notifier.Start(ctx)

	dashboard := service.NewDashboard(service.Options{
		Planner:  simulator.NewTransitions(simulator.RandomChance(cfg.Simulation.Seed)),
		Notifier: notifier,
		Events:   events,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = dashboard.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		// the simulators only start once the initial load has succeeded
		if _, err := dashboard.Load(ctx, source); err != nil {
			logger.Error("Initial load failed", zap.Error(err))
			return
		}
		if !cfg.Simulation.Enabled {
			return
		}

		gen := generator.New(generator.Options{Seed: cfg.Simulation.Seed})
		runner := simulator.NewRunner(
			dashboard,
			simulator.NewArrivals(gen, cfg.Simulation.SequenceStart),
			cfg.Simulation.StatusInterval,
			cfg.Simulation.ArrivalInterval,
		)
		_ = runner.Run(ctx)
	}()

	var pushWorker *worker.PushWorker
	if len(cfg.Kafka.Brokers) > 0 {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicPush, cfg.Kafka.ConsumerGroup)
		pushWorker = worker.NewPushWorker(consumer, dashboard)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pushWorker.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Push worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(dashboard, feed)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// stops the tickers, the dashboard loop and the push consumer
	cancel()
	wg.Wait()
	if pushWorker != nil {
		if err := pushWorker.Stop(); err != nil {
			logger.Warn("Error stopping push worker", zap.Error(err))
		}
	}
	notifier.Wait()

	logger.Info("Server exited")
}
