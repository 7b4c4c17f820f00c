package appointmentRepo

import (
	"context"
	"testing"
	"time"

	"telecare/database"
	"telecare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func appointmentDoc(id, status string, start time.Time) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "patientId", Value: "p-1"},
		{Key: "doctorId", Value: "d-1"},
		{Key: "startTime", Value: start},
		{Key: "endTime", Value: start.Add(time.Hour)},
		{Key: "status", Value: status},
		{Key: "type", Value: models.AppointmentTypeVideo},
		{Key: "videoRoomId", Value: id},
	}
}

func TestMongoAppointmentRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "telecare.appointments"
	start := time.Date(2026, 11, 2, 4, 0, 0, 0, time.UTC)

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, appointmentDoc("a-1", models.StatusPending, start)))

		appt, err := repo.GetByID(context.Background(), "a-1")
		require.NoError(t, err)
		assert.Equal(t, "a-1", appt.ID)
		assert.Equal(t, models.StatusPending, appt.Status)
		assert.True(t, appt.HasParty("d-1"))
		assert.True(t, appt.StartTime.Equal(start))
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	mt.Run("overlap found", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "id", Value: "a-2"}}))

		overlap, err := repo.HasOverlap(context.Background(), "d-1", start, start.Add(30*time.Minute))
		require.NoError(t, err)
		assert.True(t, overlap)
	})

	mt.Run("no overlap", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		overlap, err := repo.HasOverlap(context.Background(), "d-1", start, start.Add(30*time.Minute))
		require.NoError(t, err)
		assert.False(t, overlap)
	})

	mt.Run("list by doctor", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			appointmentDoc("a-2", models.StatusScheduled, start.Add(24*time.Hour)),
			appointmentDoc("a-1", models.StatusPending, start),
		))

		appts, err := repo.ListByDoctor(context.Background(), "d-1")
		require.NoError(t, err)
		require.Len(t, appts, 2)
		assert.Equal(t, "a-2", appts[0].ID)
	})

	mt.Run("transition applies", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: appointmentDoc("a-1", models.StatusScheduled, start)},
		))

		appt, err := repo.Transition(context.Background(), "a-1", StatusChange{
			From: []string{models.StatusPending},
			To:   models.StatusScheduled,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusScheduled, appt.Status)
	})

	mt.Run("transition from wrong state", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Transition(context.Background(), "a-1", StatusChange{
			From: []string{models.StatusPending},
			To:   models.StatusScheduled,
		})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	mt.Run("feedback only once", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		require.NoError(t, repo.SetFeedback(context.Background(), "a-1", 5, "great"))
		assert.ErrorIs(t, repo.SetFeedback(context.Background(), "a-1", 4, "again"), database.ErrNotFound)
	})

	mt.Run("clear feedback", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		require.NoError(t, repo.ClearFeedback(context.Background(), "a-1"))
		assert.ErrorIs(t, repo.ClearFeedback(context.Background(), "missing"), database.ErrNotFound)
	})
}
