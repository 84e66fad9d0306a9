package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hms-api/internal/config"
	"hms-api/internal/email"
	apihttp "hms-api/internal/http"
	"hms-api/internal/notify"
	"hms-api/internal/payment"
	"hms-api/internal/repository"
	"hms-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init", zap.Error(err))
	}
	defer store.Close(context.Background())

	emailSender := email.NewDisabledSender("mailer not initialized")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var revocations service.RevocationStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory token revocation", zap.Error(err))
		} else {
			revocations = service.NewRedisRevocationStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, revocations)

	// El orden de registro define el orden de entrega.
	authEvents := notify.NewSubject("auth", logger)
	authEvents.Attach(notify.NewAuditLogger(logger))
	authEvents.Attach(notify.NewEmailDispatcher(logger, emailSender))

	appointmentEvents := notify.NewSubject("appointments", logger)
	appointmentEvents.Attach(notify.NewAppointmentLogger(logger))

	authSvc := service.NewAuthService(logger, store.Users, authEvents, jwtSvc, time.Duration(cfg.OTPTTLMinutes)*time.Minute)
	appointmentSvc := service.NewAppointmentService(logger, store.Appointments, store.Billing, appointmentEvents)
	billingSvc := service.NewBillingService(logger, store.Billing, payment.NewProcessor(payment.NewCardStrategy()))
	prescriptionSvc := service.NewPrescriptionService(logger, store.Prescriptions, store.Appointments)

	router := apihttp.NewRouter(logger, jwtSvc, apihttp.Handlers{
		Auth:          apihttp.NewAuthHandler(logger, authSvc),
		Users:         apihttp.NewUserHandler(logger, service.NewUserAdminService(logger, store.Users)),
		Appointments:  apihttp.NewAppointmentHandler(logger, appointmentSvc),
		Billing:       apihttp.NewBillingHandler(logger, billingSvc),
		Prescriptions: apihttp.NewPrescriptionHandler(logger, prescriptionSvc, appointmentSvc),
		Reports:       apihttp.NewReportHandler(logger, service.NewReportService(store.Billing)),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
