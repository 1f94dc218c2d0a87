package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
)

const usersCollection = "users"

// activeOnly adds the soft-delete guard to a filter. Every read against the
// users collection excludes inactive records.
func activeOnly(filter bson.M) bson.M {
	filter["active"] = bson.M{"$ne": false}
	return filter
}

// UserReadRepository provides read-only access to the users collection.
type UserReadRepository struct {
	coll *mongo.Collection
}

// NewUserReadRepository creates a new UserReadRepository.
func NewUserReadRepository(db *mongo.Database) *UserReadRepository {
	return &UserReadRepository{coll: db.Collection(usersCollection)}
}

// GetByEmail returns the active user with the given email, or nil when no
// such user exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, activeOnly(bson.M{"email": email}))
}

// GetByID returns the active user with the given id, or nil when no such
// user exists.
func (r *UserReadRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, activeOnly(bson.M{"_id": id}))
}

// GetByResetTokenHash returns the user whose stored reset-token hash matches
// and whose expiry is still in the future. Lookup always goes through the
// hash, never the plaintext token.
func (r *UserReadRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.findOne(ctx, activeOnly(bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": time.Now()},
	}))
}

func (r *UserReadRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)

	logger.Log.Infow("users.findOne", "filter", filter, "error", err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns active users matching the parsed list options.
func (r *UserReadRepository) List(ctx context.Context, opts query.Options) ([]models.User, error) {
	findOpts := options.Find().SetLimit(opts.Limit)
	if opts.Sort != nil {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Projection != nil {
		findOpts.SetProjection(opts.Projection)
	}

	cursor, err := r.coll.Find(ctx, activeOnly(opts.Filter), findOpts)

	logger.Log.Infow("users.find", "filter", opts.Filter, "limit", opts.Limit, "error", err)

	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserWriteRepository provides write access to the users collection.
type UserWriteRepository struct {
	coll *mongo.Collection
}

// NewUserWriteRepository creates a new UserWriteRepository.
func NewUserWriteRepository(db *mongo.Database) *UserWriteRepository {
	return &UserWriteRepository{coll: db.Collection(usersCollection)}
}

// Save inserts a new user record and returns its id. The caller is expected
// to have run the credential pipeline already: normalized email, hashed
// password, no confirmation field.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	now := time.Now()
	user.Active = true
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, user)

	logger.Log.Infow("users.insertOne", "email", user.Email, "error", err)

	if err != nil {
		return primitive.NilObjectID, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	user.ID = id
	return id, nil
}

// UpdateProfile sets the given profile fields and returns the updated record.
// Fields must already be restricted to the updatable allowlist.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now()

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx,
		activeOnly(bson.M{"_id": id}),
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)

	logger.Log.Infow("users.updateProfile", "id", id.Hex(), "fields", fields, "error", err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword stores a new password hash and changed-timestamp, and clears
// any outstanding reset-token pair in the same document update.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, changedAt time.Time) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password":          passwordHash,
			"passwordChangedAt": changedAt,
			"updatedAt":         time.Now(),
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})

	logger.Log.Infow("users.updatePassword", "id", id.Hex(), "error", err)

	return err
}

// SetResetToken stores the reset-token hash and expiry pair.
func (r *UserWriteRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expires,
			"updatedAt":            time.Now(),
		},
	})

	logger.Log.Infow("users.setResetToken", "id", id.Hex(), "error", err)

	return err
}

// SoftDelete marks the user inactive. The record stays in the collection but
// is excluded from all reads.
func (r *UserWriteRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"active": false, "updatedAt": time.Now()},
	})

	logger.Log.Infow("users.softDelete", "id", id.Hex(), "error", err)

	return err
}

// Delete removes the user record entirely. Admin path only.
func (r *UserWriteRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})

	logger.Log.Infow("users.deleteOne", "id", id.Hex(), "error", err)

	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
