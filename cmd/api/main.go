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

	"github.com/guild-verify-api/internal/application/audit"
	"github.com/guild-verify-api/internal/application/suppression"
	"github.com/guild-verify-api/internal/application/tenantcfg"
	"github.com/guild-verify-api/internal/application/verification"
	"github.com/guild-verify-api/internal/config"
	"github.com/guild-verify-api/internal/infrastructure/discord"
	"github.com/guild-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/guild-verify-api/internal/infrastructure/jwt"
	s3infra "github.com/guild-verify-api/internal/infrastructure/s3"
	"github.com/guild-verify-api/internal/infrastructure/smtp"
	"github.com/guild-verify-api/internal/infrastructure/sns"
	transporthttp "github.com/guild-verify-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — admin routes stay closed without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available, admin API disabled: %v", err)
	}

	// Completion event fan-out (optional).
	var events verification.EventPublisher
	if cfg.SNSEventTopicARN != "" {
		if pub, err := sns.NewPublisher(cfg); err == nil {
			events = pub
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	s3Client := s3infra.NewClient(cfg)
	exportStore := s3infra.NewStore(s3Client, cfg.S3ExportBucket)

	tenantSvc := tenantcfg.NewService(dynamo.NewTenantRepo(dynamoClient, cfg.DynamoTables.TenantConfigs))
	recordRepo := dynamo.NewRecordRepo(dynamoClient, cfg.DynamoTables.Records)
	suppressionRepo := dynamo.NewSuppressionRepo(dynamoClient, cfg.DynamoTables.Suppressions)

	verifySvc := verification.NewService(verification.ServiceDeps{
		Sessions:     dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		Tenants:      tenantSvc,
		Records:      recordRepo,
		Cooldowns:    dynamo.NewCooldownRepo(dynamoClient, cfg.DynamoTables.UserCooldowns),
		Suppressions: suppressionRepo,
		Mailer:       smtp.NewMailer(cfg),
		Granter:      discord.NewClient(cfg),
		Events:       events,
	})

	deps := &transporthttp.Deps{
		Verification: verifySvc,
		TenantConfig: tenantSvc,
		Audit:        audit.NewService(recordRepo, exportStore),
		Suppression:  suppression.NewService(suppressionRepo),
		JWTProvider:  jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
