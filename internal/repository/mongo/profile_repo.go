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

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository using MongoDB.
// All three program kinds share one collection; the unique (userId, kind)
// index keeps the one-profile-per-kind invariant.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Create inserts a new profile document.
func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.UserID.IsZero() || profile.Kind == "" {
		return primitive.NilObjectID, errors.New("profile userId and kind are required")
	}

	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
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

// Get retrieves the profile for (userID, kind).
func (r *mongoProfileRepository) Get(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) (*domain.Profile, error) {
	var profile domain.Profile
	filter := bson.M{"userId": userID, "kind": kind}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// ReplaceIntake overwrites only the intake fields and updatedAt. The
// activity history and progress aggregate are deliberately untouched.
func (r *mongoProfileRepository) ReplaceIntake(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind, intake domain.Intake) error {
	filter := bson.M{"userId": userID, "kind": kind}
	update := bson.M{
		"$set": bson.M{
			"intake":    intake,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Update replaces the activity list and progress aggregate.
func (r *mongoProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	filter := bson.M{"userId": profile.UserID, "kind": profile.Kind}
	update := bson.M{
		"$set": bson.M{
			"activities": profile.Activities,
			"progress":   profile.Progress,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes creates necessary indexes for the profiles collection.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One profile document per (userId, kind); submissions upsert.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "kind", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
