package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yatraone/transit-api/internal/application/account"
	"github.com/yatraone/transit-api/internal/application/audit"
	"github.com/yatraone/transit-api/internal/application/mail"
	"github.com/yatraone/transit-api/internal/application/notification"
	"github.com/yatraone/transit-api/internal/application/otp"
	"github.com/yatraone/transit-api/internal/application/revocation"
	"github.com/yatraone/transit-api/internal/application/session"
	"github.com/yatraone/transit-api/internal/config"
	"github.com/yatraone/transit-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/yatraone/transit-api/internal/infrastructure/jwt"
	redisinfra "github.com/yatraone/transit-api/internal/infrastructure/redis"
	"github.com/yatraone/transit-api/internal/infrastructure/smtp"
	"github.com/yatraone/transit-api/internal/infrastructure/sns"
	"github.com/yatraone/transit-api/internal/pkg/password"
	transporthttp "github.com/yatraone/transit-api/internal/transport/http"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.AppEnv, "production") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("dynamodb client: %w", err)
	}
	// Creates missing tables; a no-op when they already exist.
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	otpRepo := dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPRecords)
	auditRepo := dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditLogs)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	registrar := dynamo.NewRegistrationWriter(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.OTPRecords, cfg.DynamoTables.AuditLogs)

	redisClient, err := redisinfra.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()
	redisStore := redisinfra.NewStore(redisClient)
	revocations := revocation.NewRegistry(redisStore)

	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg)
	if err != nil {
		return fmt.Errorf("smtp mailer: %w", err)
	}
	dispatcher := mail.NewDispatcher(mailer, cfg.MailTimeout)

	// Push publishing is optional; notifications are still stored without it.
	var notifications notification.Service
	if cfg.SNSTopicARN != "" {
		pub, err := sns.NewPublisher(ctx, cfg)
		if err != nil {
			return fmt.Errorf("sns publisher: %w", err)
		}
		notifications = notification.NewService(notificationRepo, pub)
	} else {
		slog.Warn("SNS_TOPIC_ARN not set, push publishing disabled")
		notifications = notification.NewService(notificationRepo, nil)
	}

	auditor := audit.NewRecorder(auditRepo)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Records: otpRepo,
		Users:   userRepo,
		Mail:    dispatcher,
		Config:  cfg.OTP,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		Users:      userRepo,
		OTPRecords: otpRepo,
		Registrar:  registrar,
		Tokens:     tokens,
		Revocation: revocations,
		Audit:      auditor,
		Mail:       dispatcher,
		Notifier:   notifications,
		Hasher:     password.NewHasher(cfg.PasswordHashCost),
		OTPExpiry:  cfg.OTP.Expiry,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		OTP:        otpSvc,
		Users:      userRepo,
		Revocation: revocations,
		Audit:      auditor,
		Notifier:   notifications,
		Hasher:     password.NewHasher(cfg.PasswordHashCost),
	})

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		OTP:           otpSvc,
		Sessions:      sessionSvc,
		Accounts:      accountSvc,
		Notifications: notifications,
		Tokens:        tokens,
		Redis:         redisStore,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return otp.NewSweeper(otpSvc, cfg.OTP.SweepInterval).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	dispatcher.Wait()
	slog.Info("server stopped")
	return err
}
