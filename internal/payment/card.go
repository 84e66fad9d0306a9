package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CardStrategy valida la tarjeta y simula un cobro exitoso.
type CardStrategy struct {
	now func() time.Time
}

func NewCardStrategy() *CardStrategy {
	return &CardStrategy{now: time.Now}
}

func (s *CardStrategy) Process(_ context.Context, p Payment) Result {
	if msg := ValidateCard(p.CardNumber, p.CardHolder, p.ExpiryDate); msg != "" {
		return failed(msg)
	}
	if p.Amount <= 0 {
		return failed("amount must be positive")
	}

	now := time.Now()
	if s.now != nil {
		now = s.now()
	}
	return Result{
		Success:       true,
		TransactionID: transactionID(now),
		Method:        MethodCard,
		Amount:        p.Amount,
		PaymentTime:   now,
		PaymentDate:   now.Format(dateLayout),
	}
}

// transactionID arma CARD_<yyyymmddHHMMSS>_<sufijo>. El sufijo evita ids
// repetidos dentro del mismo segundo.
func transactionID(now time.Time) string {
	return "CARD_" + now.Format("20060102150405") + "_" + strings.ToUpper(uuid.NewString()[:8])
}

// ValidateCard devuelve el motivo del rechazo, o "" si la tarjeta es valida.
// El vencimiento solo se valida en formato.
func ValidateCard(number, holder, expiry string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) != 16 || !allDigits(digits) {
		return "invalid card number"
	}
	if strings.TrimSpace(holder) == "" {
		return "card holder is required"
	}
	if !validExpiry(expiry) {
		return "invalid expiry date"
	}
	return ""
}

func validExpiry(expiry string) bool {
	month, year, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok || len(month) != 2 || len(year) != 2 || !allDigits(month) || !allDigits(year) {
		return false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return false
	}
	return m >= 1 && m <= 12
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
