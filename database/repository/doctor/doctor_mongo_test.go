package doctorRepo

import (
	"context"
	"testing"

	"telecare/database"
	"telecare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoDoctorRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "telecare.doctors"

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.Doctor{ID: "d-1", Email: "a@b.co"})
		assert.ErrorIs(t, err, database.ErrDuplicate)
	})

	mt.Run("get by email decodes availability", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "id", Value: "d-1"},
			{Key: "email", Value: "asha@clinic.in"},
			{Key: "passwordHash", Value: "$2a$10$hash"},
			{Key: "availability", Value: bson.A{
				bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "slots", Value: bson.A{
					bson.D{{Key: "start", Value: "09:00"}, {Key: "end", Value: "12:00"}},
				}}},
			}},
		}))

		doc, err := repo.GetByEmail(context.Background(), "asha@clinic.in")
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$hash", doc.PasswordHash)
		require.Len(t, doc.Availability, 1)
		assert.Equal(t, models.TimeSlot{Start: "09:00", End: "12:00"}, doc.Availability[0].Slots[0])
	})

	mt.Run("exists by email or phone", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "id", Value: "d-1"}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		exists, err := repo.ExistsByEmailOrPhone(context.Background(), "a@b.co", "+919876543210")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmailOrPhone(context.Background(), "c@d.co", "+919876543211")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	mt.Run("set availability on unknown doctor", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.SetAvailability(context.Background(), "ghost", models.WeeklyAvailability{})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "d-1"}, {Key: "fullname", Value: "Dr. Asha"}, {Key: "specialisation", Value: "Cardiologist"}},
			bson.D{{Key: "id", Value: "d-2"}, {Key: "fullname", Value: "Dr. Ravi"}, {Key: "specialisation", Value: "Urologist"}},
		))

		doctors, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, doctors, 2)
		assert.Equal(t, "Urologist", doctors[1].Specialisation)
	})
}
