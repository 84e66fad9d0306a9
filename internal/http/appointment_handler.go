package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/service"
)

type AppointmentHandler struct {
	logger       *zap.Logger
	appointments *service.AppointmentService
}

func NewAppointmentHandler(logger *zap.Logger, appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{logger: logger, appointments: appointments}
}

// List maneja GET /api/appointments.
func (h *AppointmentHandler) List(c *gin.Context) {
	out, err := h.appointments.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not list appointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

// Create maneja POST /api/appointments.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req service.CreateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid create appointment request", err)
		return
	}
	appt, err := h.appointments.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not create appointment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

// UpdateStatus maneja PUT /api/appointments/:id.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid update appointment request", err)
		return
	}
	appt, err := h.appointments.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not update appointment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// Delete maneja DELETE /api/appointments/:id.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err, "could not delete appointment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}
