package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/domain"
	"hms-api/internal/service"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Appointments  *AppointmentHandler
	Billing       *BillingHandler
	Prescriptions *PrescriptionHandler
	Reports       *ReportHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, jwtSvc *service.JWTService, h Handlers) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/signup", h.Auth.Signup)
	r.POST("/verify-email", h.Auth.VerifyEmail)
	r.POST("/login", h.Auth.Login)
	r.POST("/verify-login-otp", h.Auth.VerifyLoginOTP)

	authed := r.Group("", JWTAuthMiddleware(jwtSvc))
	authed.POST("/logout", h.Auth.Logout)

	api := authed.Group("/api")

	users := api.Group("/users", RequireRole(domain.RoleAdmin))
	users.GET("", h.Users.List)
	users.PUT("/:email", h.Users.Update)
	users.DELETE("/:email", h.Users.Delete)

	appointments := api.Group("/appointments")
	appointments.GET("", h.Appointments.List)
	appointments.POST("", h.Appointments.Create)
	appointments.PUT("/:id", h.Appointments.UpdateStatus)
	appointments.DELETE("/:id", h.Appointments.Delete)

	billing := api.Group("/billing")
	billing.GET("", h.Billing.List)
	billing.POST("", h.Billing.Process)
	billing.GET("/history/:email", h.Billing.History)

	prescriptions := api.Group("/prescriptions")
	prescriptions.GET("", h.Prescriptions.List)
	prescriptions.POST("", RequireRole(domain.RoleDoctor, domain.RoleAdmin), h.Prescriptions.Create)

	doctors := api.Group("/doctors", RequireRole(domain.RoleDoctor, domain.RoleAdmin))
	doctors.GET("/:email/records", h.Prescriptions.DoctorRecords)
	doctors.GET("/:email/patients/:patient/prescriptions", h.Prescriptions.PatientHistory)

	api.GET("/reports/hospital", RequireRole(domain.RoleAdmin), h.Reports.Hospital)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
