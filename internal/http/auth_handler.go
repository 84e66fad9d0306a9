package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/service"
)

// AuthHandler expone el alta y el login en dos pasos.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth}
}

// Signup maneja POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid signup request", err)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "could not sign up")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered, verification code sent to email",
		"user":    user,
	})
}

// VerifyEmail maneja POST /verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid verify email request", err)
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.OTP); err != nil {
		writeServiceError(c, h.logger, err, "could not verify email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// Login maneja POST /login (paso 1: credenciales).
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid login request", err)
		return
	}
	challenge, err := h.auth.LoginCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not login")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "otp sent to email",
		"step":    challenge.Step,
		"email":   challenge.Email,
	})
}

// VerifyLoginOTP maneja POST /verify-login-otp (paso 2).
func (h *AuthHandler) VerifyLoginOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid login otp request", err)
		return
	}
	res, err := h.auth.LoginVerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not verify otp")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"user":       res.User,
	})
}

// Logout maneja POST /logout; requiere JWTAuthMiddleware.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := GetAuthToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if err := h.auth.Logout(token); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
