/**
 * @description
 * This is the main entry point for the marketplace-service. It is responsible
 * for initializing all components of the service: configuration, the database
 * connection pool, the optional Redis client, the RabbitMQ producer, the SES
 * mailer, the repositories, the application services, the background email
 * dispatcher, the cron scheduler, and the HTTP server. It wires everything
 * together and starts the service.
 *
 * @dependencies
 * - log, log/slog, net/http: Standard Go libraries for logging and HTTP.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Redis client for distributed rate limiting.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages.
 * - pkg/mailer, pkg/rabbitmq: SES delivery and event publishing.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/choiceproperties/marketplace-service/internal/api"
	"github.com/choiceproperties/marketplace-service/internal/app"
	"github.com/choiceproperties/marketplace-service/internal/config"
	"github.com/choiceproperties/marketplace-service/internal/store"
	"github.com/choiceproperties/marketplace-service/pkg/mailer"
	"github.com/choiceproperties/marketplace-service/pkg/rabbitmq"
)

func main() {
	// Load a local .env when present; production relies on real env vars.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"jwt secret must be configured\" env=JWT_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting marketplace-service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}

	poolConfig.MaxConns = 100
	poolConfig.MinConns = 20
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Ensure required tables exist (idempotent)
	if err := store.EnsureSchema(context.Background(), dbpool); err != nil {
		log.Printf("level=warn component=bootstrap msg=\"failed ensuring tables (may already exist)\" err=%v", err)
	}

	// Initialize the RabbitMQ producer to publish events. The service only
	// publishes; consumers live elsewhere.
	var producer rabbitmq.Publisher
	rabbitProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		defer rabbitProducer.Close()
		producer = rabbitProducer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Optional Redis for distributed rate limiting. Without it the service
	// falls back to the in-process sliding window.
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; using in-process rate limiting\" err=%v", parseErr)
		} else {
			redisClient = redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelPing()
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; using in-process rate limiting\" err=%v", pingErr)
				redisClient.Close()
				redisClient = nil
			} else {
				defer redisClient.Close()
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	var limiter app.RateLimiter
	var localLimiter *app.SlidingWindowLimiter
	if redisClient != nil {
		limiter = app.NewRedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
	} else {
		localLimiter = app.NewSlidingWindowLimiter(nil)
		limiter = localLimiter
	}

	// Initialize the SES mailer for the email dispatcher.
	sesMailer, err := mailer.NewSESMailer(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"mailer init failed\" err=%v", err)
	}

	// Initialize the data access layer (repository).
	repository := store.NewPostgresRepository(dbpool)

	// Initialize the core application services with their dependencies.
	applicationService := app.NewService(repository, producer, cfg.EventExchange, cfg.SiteBaseURL)
	paymentService := app.NewPaymentService(
		repository,
		app.NewRandomOutcomeDecider(cfg.PaymentSuccessRate),
		producer,
		cfg.EventExchange,
	)
	newsletterService := app.NewNewsletterService(repository, cfg.SiteBaseURL)
	notificationService := app.NewNotificationService(repository)
	adminService := app.NewAdminService(repository)

	// Start the background email dispatcher.
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher := app.NewEmailDispatcher(repository, sesMailer)
	go dispatcher.Run(dispatcherCtx)
	log.Println("level=info component=bootstrap msg=\"email dispatcher started\"")

	// Start the cron scheduler for retention jobs.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobs := app.NewJobs(repository, localLimiter, slogger, cfg)
	scheduler := app.NewScheduler(jobs, slogger, cfg)
	scheduler.Start()
	log.Println("level=info component=bootstrap msg=\"scheduler started\"")

	// Initialize the API handlers and router.
	handlers := api.NewHandlers(applicationService, paymentService, newsletterService, notificationService, adminService)
	router := api.Routes(handlers, limiter, cfg)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	stopDispatcher()
	schedulerCtx := scheduler.Stop()
	<-schedulerCtx.Done()

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
