package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"telecare/database"
	"telecare/models"
	"telecare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates an AppointmentRepository backed by the "appointments" collection.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	repo := &MongoAppointmentRepo{coll: db.Collection("appointments")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to create appointment indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "startTime", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "startTime", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		return nil, database.TranslateError(err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"patientId": patientID})
}

func (r *MongoAppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"doctorId": doctorID})
}

func (r *MongoAppointmentRepo) HasOverlap(ctx context.Context, doctorID string, start, end time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId":  doctorID,
		"status":    bson.M{"$in": bson.A{models.StatusPending, models.StatusScheduled}},
		"startTime": bson.M{"$lt": end},
		"endTime":   bson.M{"$gt": start},
	}
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check appointment overlap: %w", err)
	}
	return true, nil
}

func (r *MongoAppointmentRepo) Transition(ctx context.Context, id string, change StatusChange) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": change.To, "updatedAt": time.Now()}
	if change.RejectionReason != "" {
		set["rejectionReason"] = change.RejectionReason
	}
	if change.Prescription != "" {
		set["prescription"] = change.Prescription
	}
	if change.ExtraAdvice != "" {
		set["extraAdvice"] = change.ExtraAdvice
	}

	filter := bson.M{"id": id, "status": bson.M{"$in": change.From}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&appt); err != nil {
		return nil, database.TranslateError(err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) SetFeedback(ctx context.Context, id string, rating int, comment string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             id,
		"status":         models.StatusCompleted,
		"feedbackRating": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"feedbackRating":  rating,
		"feedbackComment": comment,
		"updatedAt":       time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save feedback for appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoAppointmentRepo) ClearFeedback(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$unset": bson.M{"feedbackRating": "", "feedbackComment": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to clear feedback for appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
