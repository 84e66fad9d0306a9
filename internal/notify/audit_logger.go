package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const redacted = "******"

// AuditLogger escribe una linea de log por evento. Nunca falla.
type AuditLogger struct {
	logger *zap.Logger
}

func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) Name() string {
	return "audit_logger"
}

func (a *AuditLogger) Update(_ context.Context, ev Event) error {
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	fields := []zap.Field{
		zap.Time("timestamp", ts),
		zap.String("event", string(ev.Kind)),
		zap.String("subject_id", ev.SubjectID),
	}
	if len(ev.Payload) == 0 {
		fields = append(fields, zap.String("details", "no additional details"))
	} else {
		fields = append(fields, zap.Any("details", redactPayload(ev.Payload)))
	}
	a.logger.Info("audit event", fields...)
	return nil
}

// redactPayload copia p con el OTP enmascarado.
func redactPayload(p map[string]any) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if k == KeyOTP {
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}
