package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/service"
)

type ReportHandler struct {
	logger  *zap.Logger
	reports *service.ReportService
}

func NewReportHandler(logger *zap.Logger, reports *service.ReportService) *ReportHandler {
	return &ReportHandler{logger: logger, reports: reports}
}

// Hospital maneja GET /api/reports/hospital?start=&end=.
func (h *ReportHandler) Hospital(c *gin.Context) {
	report, err := h.reports.HospitalEarnings(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build report")
		return
	}
	c.JSON(http.StatusOK, report)
}
