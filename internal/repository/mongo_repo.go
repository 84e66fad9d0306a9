package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hms-api/internal/db"
	"hms-api/internal/domain"
)

// MongoUserRepository implementa UserRepository sobre la coleccion Users.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: database.Collection(db.UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return mongoErr(err)
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return domain.User{}, mongoErr(err)
	}
	return u, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := findAll(ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}), &users)
	return users, err
}

func (r *MongoUserRepository) UpdateOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	return updateOne(ctx, r.coll, bson.M{"email": email}, bson.M{
		"$set": bson.M{"otp": code, "otp_expiry": expiresAt},
	})
}

func (r *MongoUserRepository) ClearOTP(ctx context.Context, email string) error {
	return updateOne(ctx, r.coll, bson.M{"email": email}, bson.M{
		"$unset": bson.M{"otp": "", "otp_expiry": ""},
	})
}

func (r *MongoUserRepository) MarkVerified(ctx context.Context, email string) error {
	return updateOne(ctx, r.coll, bson.M{"email": email}, bson.M{
		"$set":   bson.M{"is_verified": true},
		"$unset": bson.M{"otp": "", "otp_expiry": ""},
	})
}

func (r *MongoUserRepository) Update(ctx context.Context, email string, upd UserUpdate) error {
	set := bson.M{}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if len(set) == 0 {
		return nil
	}
	return updateOne(ctx, r.coll, bson.M{"email": email}, bson.M{"$set": set})
}

func (r *MongoUserRepository) Delete(ctx context.Context, email string) error {
	return deleteOne(ctx, r.coll, bson.M{"email": email})
}

// MongoAppointmentRepository implementa AppointmentRepository sobre la coleccion Appointments.
type MongoAppointmentRepository struct {
	coll *mongo.Collection
}

func NewMongoAppointmentRepository(database *mongo.Database) *MongoAppointmentRepository {
	return &MongoAppointmentRepository{coll: database.Collection(db.AppointmentsCollection)}
}

var appointmentSort = options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

func (r *MongoAppointmentRepository) Create(ctx context.Context, appt domain.Appointment) error {
	_, err := r.coll.InsertOne(ctx, appt)
	return mongoErr(err)
}

func (r *MongoAppointmentRepository) GetByID(ctx context.Context, id string) (domain.Appointment, error) {
	var a domain.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return domain.Appointment{}, mongoErr(err)
	}
	return a, nil
}

func (r *MongoAppointmentRepository) List(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := findAll(ctx, r.coll, bson.M{}, appointmentSort, &out)
	return out, err
}

func (r *MongoAppointmentRepository) FindActiveSlot(ctx context.Context, doctorEmail, date, slot string) (domain.Appointment, error) {
	var a domain.Appointment
	err := r.coll.FindOne(ctx, bson.M{
		"doctor_email": doctorEmail,
		"date":         date,
		"time":         slot,
		"status":       bson.M{"$ne": domain.AppointmentCancelled},
	}).Decode(&a)
	if err != nil {
		return domain.Appointment{}, mongoErr(err)
	}
	return a, nil
}

func (r *MongoAppointmentRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": updatedAt},
	})
}

func (r *MongoAppointmentRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoAppointmentRepository) MarkVisited(ctx context.Context, patientEmail, doctorEmail string, updatedAt time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{
		"patient_email": patientEmail,
		"doctor_email":  doctorEmail,
		"status":        bson.M{"$nin": bson.A{domain.AppointmentVisited, domain.AppointmentCancelled}},
	}, bson.M{
		"$set": bson.M{"status": domain.AppointmentVisited, "updated_at": updatedAt},
	})
	if err != nil {
		return 0, mongoErr(err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoAppointmentRepository) ListByDoctorAndStatus(ctx context.Context, doctorEmail string, statuses []string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := findAll(ctx, r.coll, bson.M{
		"doctor_email": doctorEmail,
		"status":       bson.M{"$in": statuses},
	}, appointmentSort, &out)
	return out, err
}

// MongoBillingRepository implementa BillingRepository sobre la coleccion Billing.
type MongoBillingRepository struct {
	coll *mongo.Collection
}

func NewMongoBillingRepository(database *mongo.Database) *MongoBillingRepository {
	return &MongoBillingRepository{coll: database.Collection(db.BillingCollection)}
}

var billingSort = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

func (r *MongoBillingRepository) Create(ctx context.Context, b domain.Billing) error {
	_, err := r.coll.InsertOne(ctx, b)
	return mongoErr(err)
}

func (r *MongoBillingRepository) GetByTransactionID(ctx context.Context, transactionID string) (domain.Billing, error) {
	var b domain.Billing
	if err := r.coll.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&b); err != nil {
		return domain.Billing{}, mongoErr(err)
	}
	return b, nil
}

func (r *MongoBillingRepository) List(ctx context.Context) ([]domain.Billing, error) {
	var out []domain.Billing
	err := findAll(ctx, r.coll, bson.M{}, billingSort, &out)
	return out, err
}

func (r *MongoBillingRepository) ListByPatient(ctx context.Context, patientEmail string) ([]domain.Billing, error) {
	var out []domain.Billing
	err := findAll(ctx, r.coll, bson.M{"patient_email": patientEmail}, billingSort, &out)
	return out, err
}

func (r *MongoBillingRepository) TotalEarnings(ctx context.Context, from, to string) (float64, error) {
	match := bson.M{}
	dateRange := bson.M{}
	if from != "" {
		dateRange["$gte"] = from
	}
	if to != "" {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		match["payment_date"] = dateRange
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// MongoPrescriptionRepository implementa PrescriptionRepository sobre la coleccion Prescriptions.
type MongoPrescriptionRepository struct {
	coll *mongo.Collection
}

func NewMongoPrescriptionRepository(database *mongo.Database) *MongoPrescriptionRepository {
	return &MongoPrescriptionRepository{coll: database.Collection(db.PrescriptionsCollection)}
}

func (r *MongoPrescriptionRepository) Create(ctx context.Context, p domain.Prescription) error {
	_, err := r.coll.InsertOne(ctx, p)
	return mongoErr(err)
}

func (r *MongoPrescriptionRepository) List(ctx context.Context, filter PrescriptionFilter) ([]domain.Prescription, error) {
	query := bson.M{}
	if filter.PatientEmail != "" {
		query["patient_email"] = filter.PatientEmail
	}
	if filter.DoctorEmail != "" {
		query["doctor_email"] = filter.DoctorEmail
	}
	var out []domain.Prescription
	err := findAll(ctx, r.coll, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}), &out)
	return out, err
}

func findAll(ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions, out any) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return mongoErr(err)
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func updateOne(ctx context.Context, coll *mongo.Collection, filter, update any) error {
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter any) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return mongoErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
