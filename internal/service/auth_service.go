package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hms-api/internal/domain"
	"hms-api/internal/notify"
	"hms-api/internal/repository"
)

const (
	defaultOTPTTL = 10 * time.Minute

	otpTypeSignup = "signup"
	otpTypeLogin  = "login"

	reasonNotFound    = "not_found"
	reasonNotVerified = "not_verified"
	reasonNoOTP       = "no_otp"
	reasonExpired     = "expired"
	reasonInvalid     = "invalid"

	StepVerifyOTP = "verify_otp"
)

// EventNotifier entrega eventos a los observadores registrados.
type EventNotifier interface {
	Notify(ctx context.Context, ev notify.Event) notify.Result
}

// AuthService coordina el alta, la verificacion de email y el login en dos pasos.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	events EventNotifier
	tokens *JWTService
	otpTTL time.Duration
	now    func() time.Time
}

// NewAuthService construye el servicio. Los intentos de verificacion no se
// limitan.
func NewAuthService(logger *zap.Logger, users repository.UserRepository, events EventNotifier, tokens *JWTService, otpTTL time.Duration) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &AuthService{
		logger: logger,
		users:  users,
		events: events,
		tokens: tokens,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginChallenge es la respuesta del primer paso del login.
type LoginChallenge struct {
	Step  string `json:"step"`
	Email string `json:"email"`
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      domain.PublicUser `json:"user"`
}

// Signup registra un usuario sin verificar y emite su OTP de alta.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (domain.PublicUser, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return domain.PublicUser{}, validationf("name, email and password are required")
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = domain.RolePatient
	}
	if _, ok := validRoles[role]; !ok {
		return domain.PublicUser{}, validationf("unknown role %q", input.Role)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.PublicUser{}, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.PublicUser{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}
	code, err := generateOTP()
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.otpTTL)
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   false,
		OTP:          code,
		OTPExpiry:    &expiresAt,
		CreatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.PublicUser{}, ErrConflict
		}
		return domain.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	res := s.emit(ctx, notify.KindOTPGenerated, email, map[string]any{
		notify.KeyOTP:       code,
		notify.KeyType:      otpTypeSignup,
		notify.KeyExpiresAt: expiresAt,
	})
	if err := res.CriticalErr(); err != nil {
		// El usuario ya existe; puede pedir un nuevo codigo via login.
		s.logger.Warn("signup otp delivery failed", zap.String("email", email), zap.Error(err))
	}

	s.logger.Info("user signed up", zap.String("email", email), zap.String("role", role))
	return user.Public(), nil
}

// VerifyEmail marca el email como verificado si el OTP coincide y no expiro.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return validationf("email and otp are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	// Una cuenta verificada solo tiene OTP de login; no se consume aqui.
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	if !user.HasOTP() || !otpMatches(code, user.OTP) {
		return ErrOTPInvalid
	}
	if !s.now().UTC().Before(*user.OTPExpiry) {
		if err := s.users.ClearOTP(ctx, email); err != nil {
			s.logger.Warn("clear expired otp failed", zap.String("email", email), zap.Error(err))
		}
		return ErrOTPInvalid
	}
	if err := s.users.MarkVerified(ctx, email); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	s.logger.Info("email verified", zap.String("email", email))
	return nil
}

// LoginCredentials valida email y password y emite un OTP de login. Si el
// envio del OTP falla se emite OTP_FAILED y el login falla.
func (s *AuthService) LoginCredentials(ctx context.Context, email, password string) (LoginChallenge, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginChallenge{}, validationf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginChallenge{}, ErrInvalidCredentials
		}
		return LoginChallenge{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginChallenge{}, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return LoginChallenge{}, ErrEmailNotVerified
	}

	code, err := generateOTP()
	if err != nil {
		return LoginChallenge{}, fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := s.now().UTC().Add(s.otpTTL)
	if err := s.users.UpdateOTP(ctx, email, code, expiresAt); err != nil {
		return LoginChallenge{}, fmt.Errorf("store otp: %w", err)
	}

	res := s.emit(ctx, notify.KindOTPGenerated, email, map[string]any{
		notify.KeyOTP:       code,
		notify.KeyType:      otpTypeLogin,
		notify.KeyExpiresAt: expiresAt,
	})
	if err := res.CriticalErr(); err != nil {
		s.emit(ctx, notify.KindOTPFailed, email, map[string]any{
			notify.KeyError: err.Error(),
		})
		return LoginChallenge{}, fmt.Errorf("%w: %v", ErrEmailSendFailure, err)
	}
	return LoginChallenge{Step: StepVerifyOTP, Email: email}, nil
}

// LoginVerifyOTP consume el OTP de login y emite el token de sesion.
func (s *AuthService) LoginVerifyOTP(ctx context.Context, email, code string) (LoginResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return LoginResult{}, validationf("email and otp are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.verificationFailed(ctx, email, reasonNotFound)
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	// El OTP de una cuenta sin verificar es el de alta y no abre sesion.
	if !user.IsVerified {
		s.verificationFailed(ctx, email, reasonNotVerified)
		return LoginResult{}, ErrEmailNotVerified
	}
	if !user.HasOTP() {
		s.verificationFailed(ctx, email, reasonNoOTP)
		return LoginResult{}, ErrOTPNotRequested
	}
	if s.now().UTC().After(*user.OTPExpiry) {
		if err := s.users.ClearOTP(ctx, email); err != nil {
			s.logger.Warn("clear expired otp failed", zap.String("email", email), zap.Error(err))
		}
		s.verificationFailed(ctx, email, reasonExpired)
		return LoginResult{}, ErrOTPExpired
	}
	if !otpMatches(code, user.OTP) {
		s.verificationFailed(ctx, email, reasonInvalid)
		return LoginResult{}, ErrOTPInvalid
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	if err := s.users.ClearOTP(ctx, email); err != nil {
		return LoginResult{}, fmt.Errorf("clear otp: %w", err)
	}
	s.emit(ctx, notify.KindLoginSuccess, email, map[string]any{
		"role": user.Role,
	})
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// Logout revoca el token recibido.
func (s *AuthService) Logout(token string) error {
	return s.tokens.Revoke(token)
}

func (s *AuthService) verificationFailed(ctx context.Context, email, reason string) {
	s.emit(ctx, notify.KindVerificationFailed, email, map[string]any{
		notify.KeyReason: reason,
	})
}

func (s *AuthService) emit(ctx context.Context, kind notify.Kind, subjectID string, payload map[string]any) notify.Result {
	if s.events == nil {
		return notify.Result{}
	}
	return s.events.Notify(ctx, notify.NewEvent(kind, subjectID, payload))
}
