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

const challengeCollectionName = "challenges"

// mongoChallengeRepository implements repository.ChallengeRepository using MongoDB.
type mongoChallengeRepository struct {
	collection *mongo.Collection
}

// NewMongoChallengeRepository creates a new instance of mongoChallengeRepository.
func NewMongoChallengeRepository(db *mongo.Database) repository.ChallengeRepository {
	return &mongoChallengeRepository{
		collection: db.Collection(challengeCollectionName),
	}
}

// Create inserts a new challenge. The unique code index turns a code
// collision into ErrDuplicate so the caller can redraw.
func (r *mongoChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) (primitive.ObjectID, error) {
	if challenge.Code == "" || challenge.AdminUserID.IsZero() {
		return primitive.NilObjectID, errors.New("challenge code and adminUserId are required")
	}

	challenge.ID = primitive.NewObjectID()
	challenge.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, challenge)
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

// GetByCode retrieves a challenge by its join code.
func (r *mongoChallengeRepository) GetByCode(ctx context.Context, code string) (*domain.Challenge, error) {
	var challenge domain.Challenge
	filter := bson.M{"code": code}

	err := r.collection.FindOne(ctx, filter).Decode(&challenge)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// AddParticipant appends the participant in one atomic update. The filter
// requires the challenge to be active and the user not yet a member, which
// closes the read-then-write join race.
func (r *mongoChallengeRepository) AddParticipant(ctx context.Context, code string, participant domain.Participant) error {
	filter := bson.M{
		"code":                code,
		"active":              true,
		"participants.userId": bson.M{"$ne": participant.UserID},
	}
	update := bson.M{
		"$push": bson.M{"participants": participant},
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

// IncrementPoints bumps the denormalized points cache of one participant.
func (r *mongoChallengeRepository) IncrementPoints(ctx context.Context, code string, userID primitive.ObjectID, delta int) error {
	filter := bson.M{"code": code, "participants.userId": userID}
	update := bson.M{
		"$inc": bson.M{"participants.$.points": delta},
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

// ListByParticipant returns the active challenges the user belongs to,
// in store-native order.
func (r *mongoChallengeRepository) ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Challenge, error) {
	filter := bson.M{"active": true, "participants.userId": userID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var challenges []domain.Challenge
	if err = cursor.All(ctx, &challenges); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return challenges, nil
}

// Deactivate flips active to false. Only the challenge admin may do this;
// there is no reactivation path.
func (r *mongoChallengeRepository) Deactivate(ctx context.Context, code string, adminUserID primitive.ObjectID) error {
	filter := bson.M{"code": code, "adminUserId": adminUserID}
	update := bson.M{"$set": bson.M{"active": false}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureChallengeIndexes creates necessary indexes for the challenges collection.
func EnsureChallengeIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "participants.userId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
