package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/password"
	"github.com/TechsCEO/huma-tour/internal/query"
)

// ErrPasswordUpdateNotAllowed is returned when a profile update carries
// password fields; those go through the dedicated password endpoints.
var ErrPasswordUpdateNotAllowed = errors.New("this route is not for password updates, please use /auth/updateMyPassword")

// UserLister defines list and lookup operations for user management.
type UserLister interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, opts query.Options) ([]models.User, error)
}

// UserProfileWriter defines write operations for user management.
type UserProfileWriter interface {
	Save(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// ProfileUpdate carries the fields a user may change about themselves.
// Password fields are present only to detect and reject misuse.
type ProfileUpdate struct {
	Name            string
	Email           string
	Photo           string
	Password        string
	PasswordConfirm string
}

// UserService handles user profile and admin user management.
type UserService struct {
	reader UserLister
	writer UserProfileWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserLister, writer UserProfileWriter) *UserService {
	return &UserService{reader: reader, writer: writer}
}

// GetMe returns the authenticated user's own record.
func (svc *UserService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	return svc.get(ctx, userID)
}

// UpdateMe applies a profile update for the authenticated user. Only name,
// email, and photo may change here; password fields are rejected outright.
func (svc *UserService) UpdateMe(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	if update.Password != "" || update.PasswordConfirm != "" {
		return nil, ErrPasswordUpdateNotAllowed
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	fields := allowedProfileFields(update)
	if len(fields) == 0 {
		return svc.get(ctx, userID)
	}

	user, err := svc.writer.UpdateProfile(ctx, id, fields)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteMe soft-deletes the authenticated user's account. The record stays
// in the collection but disappears from every read.
func (svc *UserService) DeleteMe(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := svc.writer.SoftDelete(ctx, id); err != nil {
		logger.Log.Errorw("failed to soft-delete user", "user_id", userID, "err", err)
		return err
	}
	return nil
}

// List returns users matching the parsed list options. Admin only.
func (svc *UserService) List(ctx context.Context, opts query.Options) ([]models.User, error) {
	return svc.reader.List(ctx, opts)
}

// Get returns a single user by id.
func (svc *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return svc.get(ctx, userID)
}

// Create registers a user record through the same credential pipeline as
// sign-up: normalized email, hashed password, no confirmation field stored.
func (svc *UserService) Create(ctx context.Context, name, email, plaintext string, role models.Role) (*models.User, error) {
	email = NormalizeEmail(email)

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	if role == "" {
		role = models.RoleUser
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if _, err := svc.writer.Save(ctx, user); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}
	return user, nil
}

// Update applies a profile update to any user by id.
func (svc *UserService) Update(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	if update.Password != "" || update.PasswordConfirm != "" {
		return nil, ErrPasswordUpdateNotAllowed
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := svc.writer.UpdateProfile(ctx, id, allowedProfileFields(update))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Delete removes a user record entirely. Admin path.
func (svc *UserService) Delete(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	n, err := svc.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "user_id", userID, "err", err)
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (svc *UserService) get(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// allowedProfileFields builds the update document from the allowlist of
// self-serve profile fields.
func allowedProfileFields(update ProfileUpdate) bson.M {
	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Email != "" {
		fields["email"] = NormalizeEmail(update.Email)
	}
	if update.Photo != "" {
		fields["photo"] = update.Photo
	}
	return fields
}
