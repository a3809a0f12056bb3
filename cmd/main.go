package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vhvplatform/go-reminder-engine/internal/analytics"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/engine"
	"github.com/vhvplatform/go-reminder-engine/internal/handler"
	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/middleware"
	"github.com/vhvplatform/go-reminder-engine/internal/notify"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/config"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/mongodb"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/rabbitmq"
)

func main() {
	log := logger.NewLogger("main")
	defer log.Sync()

	log.Info("Starting Reminder Engine...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize MongoDB
	mongoClient, err := mongodb.NewMongoClient(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())

	kvStore := kv.NewMongoStore(mongoClient)

	// Analytics is best-effort: run without it if RabbitMQ is unreachable
	var sink analytics.Sink = analytics.NopSink{}
	rabbitClient, err := rabbitmq.NewRabbitMQClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Warn("RabbitMQ unavailable, analytics disabled", "error", err)
	} else {
		defer rabbitClient.Close()
		publisher, err := analytics.NewPublisher(rabbitClient, cfg.RabbitMQ.Exchange, logger.NewLogger("analytics"))
		if err != nil {
			log.Warn("Failed to declare analytics exchange, analytics disabled", "error", err)
		} else {
			sink = publisher
		}
	}

	// The engine manager is wired as the store's delivery callback, so every
	// fired notification passes through the owning user's delivery gate.
	var engines *engine.Manager
	store := notify.NewCronStore(func(p domain.PendingNotification) {
		engines.Deliver(p)
	}, logger.NewLogger("notify"))
	engines = engine.NewManager(kvStore, store, sink, logger.NewLogger("engine"))

	store.Start()
	defer store.Stop()

	// HTTP surface
	prefsHandler := handler.NewPreferencesHandler(engines, logger.NewLogger("preferences"))
	scheduleHandler := handler.NewScheduleHandler(engines, logger.NewLogger("scheduler"))
	deliveryHandler := handler.NewDeliveryHandler(engines, logger.NewLogger("delivery"))
	rateLimiter := middleware.NewUserRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := router.Group("/api/v1/users/:user_id")
	users.Use(middleware.RateLimitMiddleware(rateLimiter))
	{
		users.GET("/preferences", prefsHandler.GetPreferences)
		users.PATCH("/preferences", prefsHandler.UpdatePreferences)
		users.POST("/preferences/reset", prefsHandler.ResetPreferences)
		users.DELETE("/preferences/quiet-hours", prefsHandler.ClearQuietHours)

		users.GET("/reminders", scheduleHandler.GetOwnedReminders)
		users.POST("/reminders/daily", scheduleHandler.ScheduleDailyReminder)
		users.POST("/reminders/lead", scheduleHandler.ScheduleLeadReminder)
		users.POST("/notifications", scheduleHandler.SendImmediate)
		users.DELETE("/reminders", scheduleHandler.CancelAll)
		users.DELETE("/reminders/:category", scheduleHandler.CancelCategory)

		users.POST("/delivery/will-present", deliveryHandler.WillPresent)
		users.POST("/delivery/opened", deliveryHandler.Opened)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Reminder Engine...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Reminder Engine stopped")
}
