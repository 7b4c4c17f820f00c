package patientRepo

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

// MongoPatientRepo implements PatientRepository using MongoDB.
type MongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo creates a PatientRepository backed by the "patients" collection.
func NewMongoPatientRepo(db *mongo.Database) PatientRepository {
	repo := &MongoPatientRepo{coll: db.Collection("patients")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to create patient indexes", zap.Error(err))
	}
	return repo
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoPatientRepo) ensureIndexes() error {
	ctx, cancel := withTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPatientRepo) Create(ctx context.Context, patient *models.Patient) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoPatientRepo) findOne(ctx context.Context, filter bson.M) (*models.Patient, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	if err := r.coll.FindOne(ctx, filter).Decode(&patient); err != nil {
		return nil, database.TranslateError(err)
	}
	return &patient, nil
}

func (r *MongoPatientRepo) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoPatientRepo) GetByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	return r.findOne(ctx, bson.M{"phoneNumber": phone})
}

func (r *MongoPatientRepo) UpdateDetails(ctx context.Context, patient *models.Patient) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	patient.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"fullName":  patient.FullName,
		"age":       patient.Age,
		"address":   patient.Address,
		"updatedAt": patient.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": patient.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update patient with id %s: %w", patient.ID, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoPatientRepo) MarkVerified(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"accountVerified": true, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to verify patient with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
