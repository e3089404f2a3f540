package mongo

import (
	"context"
	"errors"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkInCollectionName = "checkins"

// mongoCheckInRepository implements repository.CheckInRepository using MongoDB.
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new instance of mongoCheckInRepository.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Create appends a check-in entry. A second check-in inside the same
// calendar-day window hits the unique (challengeCode, userId, day) index
// and comes back as ErrDuplicate, even under concurrent requests.
func (r *mongoCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	if checkIn.ChallengeCode == "" || checkIn.UserID.IsZero() || checkIn.Day == "" {
		return primitive.NilObjectID, errors.New("check-in challengeCode, userId and day are required")
	}

	checkIn.ID = primitive.NewObjectID()
	checkIn.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, checkIn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// ListByChallenge returns every check-in for a challenge, newest first.
func (r *mongoCheckInRepository) ListByChallenge(ctx context.Context, code string) ([]domain.CheckIn, error) {
	filter := bson.M{"challengeCode": code}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkIns []domain.CheckIn
	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// SumPoints derives the authoritative point total of one participant.
func (r *mongoCheckInRepository) SumPoints(ctx context.Context, code string, userID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"challengeCode": code, "userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$points"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// EnsureCheckInIndexes creates necessary indexes for the checkins collection.
func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One check-in per (challenge, user, calendar day). This is the
			// real guarantee; the service-level read is only a fast path.
			Keys: bson.D{
				{Key: "challengeCode", Value: 1},
				{Key: "userId", Value: 1},
				{Key: "day", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
