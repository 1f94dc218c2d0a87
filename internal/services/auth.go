package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/password"
)

// Error variables
var (
	ErrUserAlreadyExists          = errors.New("user with this email already registered")
	ErrUserNotFound               = errors.New("user not found")
	ErrInvalidCredentials         = errors.New("incorrect email or password")
	ErrWrongCurrentPassword       = errors.New("your current password is wrong")
	ErrSamePassword               = errors.New("new password must differ from the current password")
	ErrResetTokenInvalidOrExpired = errors.New("token is invalid or expired")
)

// UserReader defines read-only operations for user credentials.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
}

// UserWriter defines write operations for user credentials.
type UserWriter interface {
	Save(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
}

// TokenIssuer defines an interface for issuing session tokens.
type TokenIssuer interface {
	Generate(ctx context.Context, userID string, role models.Role) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AuthEvent is published to Kafka for out-of-band delivery, e.g. the reset
// link that would otherwise be emailed.
type AuthEvent struct {
	Type     string    `json:"type"`
	Email    string    `json:"email"`
	ResetURL string    `json:"reset_url,omitempty"`
	At       time.Time `json:"at"`
}

// AuthService handles sign-up, login, and the password lifecycle.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	jwt         TokenIssuer
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenIssuer, kafkaWriter KafkaWriter) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		kafkaWriter: kafkaWriter,
	}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new user and returns a session token with the created
// record. New accounts always start with the "user" role.
func (svc *AuthService) SignUp(ctx context.Context, name, email, plaintext string) (string, *models.User, error) {
	email = NormalizeEmail(email)

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return "", nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "email", email)
		return "", nil, ErrUserAlreadyExists
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: hash,
	}
	id, err := svc.writer.Save(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return "", nil, err
	}

	token, err := svc.jwt.Generate(ctx, id.Hex(), user.Role)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", nil, err
	}

	svc.publishEvent(ctx, AuthEvent{Type: "user_signed_up", Email: email, At: time.Now()})

	return token, user, nil
}

// Login authenticates a user by email and password and returns a session
// token. Unknown email and wrong password are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, email, plaintext string) (string, *models.User, error) {
	user, err := svc.reader.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", nil, err
	}
	if user == nil || !password.Compare(plaintext, user.PasswordHash) {
		logger.Log.Errorw("invalid credentials", "email", email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.ID.Hex(), user.Role)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", nil, err
	}

	return token, user, nil
}

// ForgotPassword creates a reset token for the user, stores only its hash
// plus a short expiry, and returns the reset URL. The plaintext token leaves
// the process only through the returned URL and the published event.
func (svc *AuthService) ForgotPassword(ctx context.Context, baseURL, email string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	plaintext, digest, err := password.NewResetToken()
	if err != nil {
		logger.Log.Errorw("failed to generate reset token", "err", err)
		return "", err
	}

	expires := time.Now().Add(password.ResetTokenTTL)
	if err := svc.writer.SetResetToken(ctx, user.ID, digest, expires); err != nil {
		logger.Log.Errorw("failed to store reset token", "err", err)
		return "", err
	}

	resetURL := fmt.Sprintf("%s/auth/resetPassword/%s", strings.TrimRight(baseURL, "/"), plaintext)

	svc.publishEvent(ctx, AuthEvent{Type: "password_reset_requested", Email: user.Email, ResetURL: resetURL, At: time.Now()})

	return resetURL, nil
}

// ResetPassword consumes a reset token: it looks the user up by the token's
// hash, rejects expired or unknown tokens, rejects reuse of the current
// password, stores the new hash, and clears the token pair so it is
// single-use. Returns a fresh session token.
func (svc *AuthService) ResetPassword(ctx context.Context, plainToken, newPlaintext string) (string, *models.User, error) {
	user, err := svc.reader.GetByResetTokenHash(ctx, password.HashResetToken(plainToken))
	if err != nil {
		logger.Log.Errorw("failed to look up reset token", "err", err)
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrResetTokenInvalidOrExpired
	}

	token, err := svc.changePassword(ctx, user, newPlaintext)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UpdateMyPassword changes the password of an authenticated user after
// verifying the current one. Returns a fresh session token.
func (svc *AuthService) UpdateMyPassword(ctx context.Context, userID, currentPlaintext, newPlaintext string) (string, *models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}

	if !password.Compare(currentPlaintext, user.PasswordHash) {
		logger.Log.Errorw("wrong current password", "user_id", userID)
		return "", nil, ErrWrongCurrentPassword
	}

	token, err := svc.changePassword(ctx, user, newPlaintext)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// changePassword applies the shared password change rules: the new password
// must differ from the current one, the changed-timestamp is backdated by a
// small skew so tokens issued a moment earlier stay valid, and any reset
// pair is cleared by the same update.
func (svc *AuthService) changePassword(ctx context.Context, user *models.User, newPlaintext string) (string, error) {
	if password.Compare(newPlaintext, user.PasswordHash) {
		return "", ErrSamePassword
	}

	hash, err := password.Hash(newPlaintext)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", err
	}

	changedAt := time.Now().Add(-password.ChangedAtSkew)
	if err := svc.writer.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, user.ID.Hex(), user.Role)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}
	return token, nil
}

// publishEvent publishes an auth event to Kafka. Publishing is best-effort:
// a missing writer or a broker failure never fails the request.
func (svc *AuthService) publishEvent(ctx context.Context, event AuthEvent) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "type", event.Type)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "type", event.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Email),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "type", event.Type, "error", err)
	} else {
		logger.Log.Infow("auth event published", "type", event.Type, "email", event.Email)
	}
}
