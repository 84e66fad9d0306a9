package notify

import (
	"context"

	"go.uber.org/zap"
)

// AppointmentLogger loguea altas de citas y cambios de estado.
type AppointmentLogger struct {
	logger *zap.Logger
}

func NewAppointmentLogger(logger *zap.Logger) *AppointmentLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentLogger{logger: logger}
}

func (l *AppointmentLogger) Name() string {
	return "appointment_logger"
}

func (l *AppointmentLogger) Update(_ context.Context, ev Event) error {
	if ev.Kind == KindAppointmentCreated {
		l.logger.Info("new appointment created",
			zap.Time("timestamp", ev.OccurredAt),
			zap.String("appointment_id", ev.SubjectID),
			zap.Any("appointment", ev.Payload),
		)
		return nil
	}
	l.logger.Info("appointment status changed",
		zap.Time("timestamp", ev.OccurredAt),
		zap.String("appointment_id", ev.SubjectID),
		zap.String("old_status", ev.String(KeyOldStatus)),
		zap.String("new_status", ev.String(KeyNewStatus)),
	)
	return nil
}
