package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hms-api/internal/config"
	"hms-api/internal/db"
)

// Store agrupa los repositorios del driver configurado.
type Store struct {
	Users         UserRepository
	Appointments  AppointmentRepository
	Billing       BillingRepository
	Prescriptions PrescriptionRepository

	closeFn func(context.Context)
}

// Close libera las conexiones del driver.
func (s *Store) Close(ctx context.Context) {
	if s != nil && s.closeFn != nil {
		s.closeFn(ctx)
	}
}

// OpenStore conecta al driver de STORE_DRIVER y asegura esquema o indices.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, database, err := db.NewMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		logger.Info("store ready", zap.String("driver", cfg.StoreDriver), zap.String("database", cfg.MongoDatabase))
		return &Store{
			Users:         NewMongoUserRepository(database),
			Appointments:  NewMongoAppointmentRepository(database),
			Billing:       NewMongoBillingRepository(database),
			Prescriptions: NewMongoPrescriptionRepository(database),
			closeFn: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					logger.Warn("mongo disconnect", zap.Error(err))
				}
			},
		}, nil
	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("store ready", zap.String("driver", cfg.StoreDriver))
		return &Store{
			Users:         NewPgUserRepository(pool),
			Appointments:  NewPgAppointmentRepository(pool),
			Billing:       NewPgBillingRepository(pool),
			Prescriptions: NewPgPrescriptionRepository(pool),
			closeFn:       func(context.Context) { pool.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
