package doctorRepo

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

// MongoDoctorRepo implements DoctorRepository using MongoDB.
type MongoDoctorRepo struct {
	coll *mongo.Collection
}

// summaryProjection limits list queries to the public profile fields.
var summaryProjection = bson.M{
	"id":              1,
	"fullname":        1,
	"specialisation":  1,
	"experience":      1,
	"hospital":        1,
	"consultationFee": 1,
	"averageRating":   1,
	"profilePicture":  1,
	"isAvailable":     1,
}

// NewMongoDoctorRepo creates a DoctorRepository backed by the "doctors" collection.
func NewMongoDoctorRepo(db *mongo.Database) DoctorRepository {
	repo := &MongoDoctorRepo{coll: db.Collection("doctors")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to create doctor indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoDoctorRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialisation", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepo) Create(ctx context.Context, doctor *models.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	if doctor.Reviews == nil {
		doctor.Reviews = []models.Review{}
	}
	if doctor.Availability == nil {
		doctor.Availability = models.WeeklyAvailability{}
	}

	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoDoctorRepo) findOne(ctx context.Context, filter bson.M) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	if err := r.coll.FindOne(ctx, filter).Decode(&doctor); err != nil {
		return nil, database.TranslateError(err)
	}
	return &doctor, nil
}

func (r *MongoDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoDoctorRepo) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoDoctorRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{{"email": email}, {"phoneNumber": phone}}}
	opts := options.FindOne().SetProjection(bson.M{"id": 1})
	err := r.coll.FindOne(ctx, filter, opts).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check doctor uniqueness: %w", err)
	}
	return true, nil
}

func (r *MongoDoctorRepo) List(ctx context.Context) ([]models.DoctorSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(summaryProjection).SetSort(bson.D{{Key: "fullname", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []models.DoctorSummary{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *MongoDoctorRepo) updateFields(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update doctor with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoDoctorRepo) SetAvailability(ctx context.Context, id string, week models.WeeklyAvailability) error {
	if week == nil {
		week = models.WeeklyAvailability{}
	}
	return r.updateFields(ctx, id, bson.M{"availability": week})
}

func (r *MongoDoctorRepo) SetProfilePicture(ctx context.Context, id, url string) error {
	return r.updateFields(ctx, id, bson.M{"profilePicture": url})
}

func (r *MongoDoctorRepo) AddReview(ctx context.Context, id string, review models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Pipeline update keeps the aggregate fields consistent with the reviews array.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.M{"$literal": bson.A{review}},
			}},
			"updatedAt": time.Now(),
		}}},
		{{Key: "$set", Value: bson.M{
			"ratingCount":   bson.M{"$size": "$reviews"},
			"averageRating": bson.M{"$round": bson.A{bson.M{"$avg": "$reviews.rating"}, 2}},
		}}},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to add review for doctor %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
