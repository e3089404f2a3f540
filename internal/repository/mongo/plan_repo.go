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

const planCollectionName = "plan_snapshots"

// mongoPlanRepository implements repository.PlanRepository using MongoDB.
// Snapshots are append-only; there is no update path.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new instance of mongoPlanRepository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create appends a new immutable plan snapshot.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.PlanSnapshot) (primitive.ObjectID, error) {
	if plan.UserID.IsZero() || plan.PlanType == "" {
		return primitive.NilObjectID, errors.New("plan userId and planType are required")
	}

	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetLatestByUserID returns the newest snapshot for the user.
func (r *mongoPlanRepository) GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error) {
	var plan domain.PlanSnapshot
	filter := bson.M{"userId": userID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// EnsurePlanIndexes creates necessary indexes for the plan snapshots collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
