package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
	"github.com/TechsCEO/huma-tour/internal/services"
)

func TestUserService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	mockWriter := services.NewMockUserProfileWriter(ctrl)

	svc := services.NewUserService(mockReader, mockWriter)

	userID := primitive.NewObjectID()
	knownUser := &models.User{ID: userID, Name: "Alice"}

	tests := []struct {
		name      string
		userID    string
		user      *models.User
		readerErr error
		wantCall  bool
		wantErr   error
	}{
		{
			name:     "found",
			userID:   userID.Hex(),
			user:     knownUser,
			wantCall: true,
		},
		{
			name:     "not found",
			userID:   primitive.NewObjectID().Hex(),
			wantCall: true,
			wantErr:  services.ErrUserNotFound,
		},
		{
			name:    "malformed id",
			userID:  "nope",
			wantErr: services.ErrUserNotFound,
		},
		{
			name:      "reader error",
			userID:    userID.Hex(),
			readerErr: errors.New("db error"),
			wantCall:  true,
			wantErr:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCall {
				id, err := primitive.ObjectIDFromHex(tt.userID)
				require.NoError(t, err)
				mockReader.EXPECT().
					GetByID(gomock.Any(), id).
					Return(tt.user, tt.readerErr)
			}

			user, err := svc.GetMe(context.Background(), tt.userID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, knownUser, user)
			}
		})
	}
}

func TestUserService_UpdateMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	mockWriter := services.NewMockUserProfileWriter(ctrl)

	svc := services.NewUserService(mockReader, mockWriter)

	userID := primitive.NewObjectID()

	t.Run("rejects password fields", func(t *testing.T) {
		_, err := svc.UpdateMe(context.Background(), userID.Hex(), services.ProfileUpdate{
			Name:     "Alice",
			Password: "sneaky",
		})
		assert.ErrorIs(t, err, services.ErrPasswordUpdateNotAllowed)

		_, err = svc.UpdateMe(context.Background(), userID.Hex(), services.ProfileUpdate{
			PasswordConfirm: "sneaky",
		})
		assert.ErrorIs(t, err, services.ErrPasswordUpdateNotAllowed)
	})

	t.Run("updates only allowlisted fields", func(t *testing.T) {
		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), userID, bson.M{"name": "Alice B", "email": "alice.b@example.com"}).
			Return(&models.User{ID: userID, Name: "Alice B", Email: "alice.b@example.com"}, nil)

		user, err := svc.UpdateMe(context.Background(), userID.Hex(), services.ProfileUpdate{
			Name:  "Alice B",
			Email: "Alice.B@Example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice B", user.Name)
	})

	t.Run("empty update falls back to a read", func(t *testing.T) {
		mockReader.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(&models.User{ID: userID, Name: "Alice"}, nil)

		user, err := svc.UpdateMe(context.Background(), userID.Hex(), services.ProfileUpdate{})
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})
}

func TestUserService_DeleteMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	mockWriter := services.NewMockUserProfileWriter(ctrl)

	svc := services.NewUserService(mockReader, mockWriter)

	userID := primitive.NewObjectID()

	t.Run("soft-deletes, never hard-deletes", func(t *testing.T) {
		mockWriter.EXPECT().
			SoftDelete(gomock.Any(), userID).
			Return(nil)

		assert.NoError(t, svc.DeleteMe(context.Background(), userID.Hex()))
	})

	t.Run("malformed id", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteMe(context.Background(), "nope"), services.ErrUserNotFound)
	})
}

func TestUserService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	mockWriter := services.NewMockUserProfileWriter(ctrl)

	svc := services.NewUserService(mockReader, mockWriter)

	t.Run("defaults role to user and hashes the password", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "carol@example.com").
			Return(nil, nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *models.User) (primitive.ObjectID, error) {
				assert.Equal(t, models.RoleUser, user.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")))
				return primitive.NewObjectID(), nil
			})

		user, err := svc.Create(context.Background(), "Carol", "carol@example.com", "pass1234", "")
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("keeps an explicit role", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "guide@example.com").
			Return(nil, nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(primitive.NewObjectID(), nil)

		user, err := svc.Create(context.Background(), "Gary", "guide@example.com", "pass1234", models.RoleGuide)
		require.NoError(t, err)
		assert.Equal(t, models.RoleGuide, user.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockReader.EXPECT().
			GetByEmail(gomock.Any(), "carol@example.com").
			Return(&models.User{ID: primitive.NewObjectID()}, nil)

		_, err := svc.Create(context.Background(), "Carol", "carol@example.com", "pass1234", "")
		assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	mockWriter := services.NewMockUserProfileWriter(ctrl)

	svc := services.NewUserService(mockReader, mockWriter)

	userID := primitive.NewObjectID()

	t.Run("deleted", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), userID).
			Return(int64(1), nil)

		assert.NoError(t, svc.Delete(context.Background(), userID.Hex()))
	})

	t.Run("no rows", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), userID).
			Return(int64(0), nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), userID.Hex()), services.ErrUserNotFound)
	})
}

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	svc := services.NewUserService(mockReader, services.NewMockUserProfileWriter(ctrl))

	opts := query.Options{Limit: 10}
	users := []models.User{{Name: "Alice"}, {Name: "Bob"}}

	mockReader.EXPECT().List(gomock.Any(), opts).Return(users, nil)

	got, err := svc.List(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, users, got)
}
