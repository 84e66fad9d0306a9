package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hms-api/internal/config"
	"hms-api/internal/notify"
	"hms-api/internal/repository"
	"hms-api/internal/service"
)

// captureSender guarda el ultimo codigo enviado a cada email.
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) SendOTP(_ context.Context, to, code string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[to] = code
	return nil
}

func (c *captureSender) last(to string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[to]
}

type step struct {
	Name string
	Run  func(ctx context.Context) error
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := zap.NewNop()
	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close(ctx)

	sender := &captureSender{codes: make(map[string]string)}
	events := notify.NewSubject("auth", logger)
	events.Attach(notify.NewEmailDispatcher(logger, sender))

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, nil)
	auth := service.NewAuthService(logger, store.Users, events, jwtSvc, time.Duration(cfg.OTPTTLMinutes)*time.Minute)

	email := fmt.Sprintf("authflow_%s@example.com", uuid.NewString())
	const password = "secret123"
	var loginCode string

	steps := []step{
		{"signup", func(ctx context.Context) error {
			_, err := auth.Signup(ctx, service.SignupInput{Name: "Authflow", Email: email, Password: password})
			return err
		}},
		{"login before verification is rejected", func(ctx context.Context) error {
			if _, err := auth.LoginCredentials(ctx, email, password); !service.IsAuthError(err) {
				return fmt.Errorf("expected auth error, got %v", err)
			}
			return nil
		}},
		{"verify email", func(ctx context.Context) error {
			return auth.VerifyEmail(ctx, email, sender.last(email))
		}},
		{"login credentials", func(ctx context.Context) error {
			_, err := auth.LoginCredentials(ctx, email, password)
			loginCode = sender.last(email)
			return err
		}},
		{"verify login otp", func(ctx context.Context) error {
			res, err := auth.LoginVerifyOTP(ctx, email, loginCode)
			if err != nil {
				return err
			}
			claims, err := jwtSvc.Parse(res.Token)
			if err != nil {
				return err
			}
			if claims.Email != email || claims.Name != "Authflow" {
				return fmt.Errorf("unexpected claims %+v", claims)
			}
			return nil
		}},
		{"replayed otp is rejected", func(ctx context.Context) error {
			if _, err := auth.LoginVerifyOTP(ctx, email, loginCode); err == nil {
				return fmt.Errorf("expected replay to fail")
			}
			return nil
		}},
	}

	passed := 0
	for _, st := range steps {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := st.Run(runCtx)
		cancel()
		if err != nil {
			fmt.Printf("FAIL [%s] %v\n", st.Name, err)
			break
		}
		fmt.Printf("PASS [%s]\n", st.Name)
		passed++
	}

	if err := store.Users.Delete(ctx, email); err != nil {
		fmt.Printf("warning: cleanup %s: %v\n", email, err)
	}

	fmt.Printf("Steps: %d/%d passed (store=%s)\n", passed, len(steps), cfg.StoreDriver)
	if passed != len(steps) {
		os.Exit(1)
	}
}
