// Package payment agrupa las estrategias de cobro intercambiables que usa billing.
package payment

import (
	"context"
	"time"
)

const (
	MethodCard = "card"

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Payment es la entrada de toda estrategia.
type Payment struct {
	Amount     float64
	CardNumber string
	CardHolder string
	ExpiryDate string
}

// Result es el resultado de un cobro. Si Success es false solo se completa Error.
type Result struct {
	Success       bool      `json:"success"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Method        string    `json:"payment_method,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	PaymentTime   time.Time `json:"payment_time,omitempty"`
	PaymentDate   string    `json:"payment_date,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// PaymentClock devuelve la hora con el formato que se guarda en billing.
func (r Result) PaymentClock() string {
	return r.PaymentTime.Format(timeLayout)
}

func failed(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Strategy cobra un pago por un medio concreto.
type Strategy interface {
	Process(ctx context.Context, p Payment) Result
}

// Processor delega en la estrategia con la que se construyo.
type Processor struct {
	strategy Strategy
}

func NewProcessor(strategy Strategy) *Processor {
	return &Processor{strategy: strategy}
}

func (p *Processor) Process(ctx context.Context, payment Payment) Result {
	if p == nil || p.strategy == nil {
		return failed("payment strategy not configured")
	}
	return p.strategy.Process(ctx, payment)
}
