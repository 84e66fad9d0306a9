package service

import (
	"context"
	"strings"
	"time"

	"hms-api/internal/repository"
)

const reportDateLayout = "2006-01-02"

type ReportService struct {
	billing repository.BillingRepository
}

func NewReportService(billing repository.BillingRepository) *ReportService {
	return &ReportService{billing: billing}
}

type EarningsReport struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	TotalEarnings float64 `json:"total_earnings"`
}

// HospitalEarnings suma los pagos con fecha de pago dentro de [start, end].
// Un extremo vacio no acota.
func (s *ReportService) HospitalEarnings(ctx context.Context, start, end string) (EarningsReport, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = time.Parse(reportDateLayout, start); err != nil {
			return EarningsReport{}, validationf("invalid start date %q", start)
		}
	}
	if end != "" {
		if to, err = time.Parse(reportDateLayout, end); err != nil {
			return EarningsReport{}, validationf("invalid end date %q", end)
		}
	}
	if start != "" && end != "" && to.Before(from) {
		return EarningsReport{}, validationf("end date before start date")
	}

	total, err := s.billing.TotalEarnings(ctx, start, end)
	if err != nil {
		return EarningsReport{}, err
	}
	return EarningsReport{Start: start, End: end, TotalEarnings: total}, nil
}
