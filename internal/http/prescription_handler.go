package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/repository"
	"hms-api/internal/service"
)

// PrescriptionHandler expone recetas e historiales del doctor.
type PrescriptionHandler struct {
	logger        *zap.Logger
	prescriptions *service.PrescriptionService
	appointments  *service.AppointmentService
}

func NewPrescriptionHandler(logger *zap.Logger, prescriptions *service.PrescriptionService, appointments *service.AppointmentService) *PrescriptionHandler {
	return &PrescriptionHandler{logger: logger, prescriptions: prescriptions, appointments: appointments}
}

// Create maneja POST /api/prescriptions.
func (h *PrescriptionHandler) Create(c *gin.Context) {
	var req service.CreatePrescriptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid prescription request", err)
		return
	}
	p, err := h.prescriptions.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not create prescription")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prescription": p})
}

// List maneja GET /api/prescriptions?patient_email=&doctor_email=.
func (h *PrescriptionHandler) List(c *gin.Context) {
	out, err := h.prescriptions.List(c.Request.Context(), repository.PrescriptionFilter{
		PatientEmail: c.Query("patient_email"),
		DoctorEmail:  c.Query("doctor_email"),
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "could not list prescriptions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": out})
}

// DoctorRecords maneja GET /api/doctors/:email/records.
func (h *PrescriptionHandler) DoctorRecords(c *gin.Context) {
	out, err := h.appointments.DoctorRecords(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeServiceError(c, h.logger, err, "could not load doctor records")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

// PatientHistory maneja GET /api/doctors/:email/patients/:patient/prescriptions.
func (h *PrescriptionHandler) PatientHistory(c *gin.Context) {
	out, err := h.prescriptions.List(c.Request.Context(), repository.PrescriptionFilter{
		DoctorEmail:  c.Param("email"),
		PatientEmail: c.Param("patient"),
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "could not load patient history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": out})
}
