package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/exchange-admin/internal/application/auth"
	"github.com/exchange-admin/internal/application/kyc"
	"github.com/exchange-admin/internal/application/notification"
	"github.com/exchange-admin/internal/application/role"
	"github.com/exchange-admin/internal/config"
	"github.com/exchange-admin/internal/domain"
	"github.com/exchange-admin/internal/infrastructure/dynamo"
	jwtinfra "github.com/exchange-admin/internal/infrastructure/jwt"
	"github.com/exchange-admin/internal/infrastructure/metrics"
	"github.com/exchange-admin/internal/infrastructure/postgres"
	"github.com/exchange-admin/internal/infrastructure/rabbitmq"
	"github.com/exchange-admin/internal/infrastructure/redis"
	s3infra "github.com/exchange-admin/internal/infrastructure/s3"
	"github.com/exchange-admin/internal/infrastructure/smtp"
	"github.com/exchange-admin/internal/infrastructure/sns"
	"github.com/exchange-admin/internal/infrastructure/totp"
	transporthttp "github.com/exchange-admin/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL holds accounts and KYC documents.
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()
	if err := postgres.Bootstrap(ctx, db); err != nil {
		log.Fatalf("postgres bootstrap: %v", err)
	}
	admins := postgres.NewAdminRepo(db)
	users := postgres.NewUserRepo(db)
	kycRepo := postgres.NewKYCRepo(db)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	// Second-factor replay guard (optional).
	var guard auth.CodeGuard
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		guard = redis.NewCodeGuard(rdb)
	} else {
		log.Println("WARN: REDIS_URL not set, TOTP replay guard disabled")
	}

	// DynamoDB notification inbox.
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	inbox := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	documents := s3infra.NewDocumentStore(s3Client, cfg.S3KYCBucket)

	// SNS SMS sender (optional, logged and skipped).
	var smsSender notification.SMSSender
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	dispatcher := notification.NewDispatcher(notification.DispatcherDeps{
		Users:  users,
		Inbox:  inbox,
		Mailer: smtp.NewMailer(cfg),
		SMS:    smsSender,
	})

	// Review events go through RabbitMQ when configured, otherwise they are
	// delivered in-process.
	var publisher kyc.EventPublisher
	if cfg.AMQPURL != "" {
		producer, err := rabbitmq.NewProducer(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("rabbitmq producer: %v", err)
		}
		defer producer.Close()
		publisher = producer

		consumer, err := rabbitmq.NewConsumer(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("rabbitmq consumer: %v", err)
		}
		defer consumer.Close()
		go func() {
			err := consumer.Consume(ctx, cfg.KYCExchange, cfg.KYCQueue, domain.RoutingKeyKYCReviewed, dispatcher.HandleMessage)
			if err != nil && ctx.Err() == nil {
				log.Printf("ERROR: notification consumer stopped: %v", err)
			}
		}()
	} else {
		local := notification.NewLocalPublisher(dispatcher)
		defer local.Close()
		publisher = local
	}

	registry := role.DefaultRegistry()

	deps := &transporthttp.Deps{
		Auth: auth.NewService(auth.ServiceDeps{
			Admins:       admins,
			Signer:       jwtProvider,
			SecondFactor: totp.NewVerifier(),
			Guard:        guard,
			Registry:     registry,
		}),
		Roles: role.NewService(registry),
		KYC: kyc.NewService(kyc.ServiceDeps{
			Store:      kycRepo,
			Publisher:  publisher,
			Objects:    documents,
			Exchange:   cfg.KYCExchange,
			PresignTTL: cfg.S3PresignTTL,
		}),
		Notifications: notification.NewService(inbox),
		Registry:      registry,
		Tokens:        jwtProvider,
		Admins:        admins,
		DB:            db,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
