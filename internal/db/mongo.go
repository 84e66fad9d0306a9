package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hms-api/internal/config"
)

// Nombres de colecciones compartidos por los repositorios Mongo.
const (
	UsersCollection         = "Users"
	AppointmentsCollection  = "Appointments"
	BillingCollection       = "Billing"
	PrescriptionsCollection = "Prescriptions"
)

// NewMongo conecta al cluster y devuelve la base configurada.
func NewMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.MongoDatabase), nil
}

// EnsureMongoIndexes crea los indices unicos equivalentes al esquema SQL.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := database.Collection(BillingCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := database.Collection(AppointmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "doctor_email", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": bson.M{"$in": bson.A{
				"pending", "Scheduled", "urgent", "visited", "completed",
			}}}),
	})
	return err
}
