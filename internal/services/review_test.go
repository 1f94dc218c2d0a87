package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

func TestReviewService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockReviewReader(ctrl)
	mockWriter := services.NewMockReviewWriter(ctrl)

	svc := services.NewReviewService(mockReader, mockWriter)

	tourID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	tests := []struct {
		name      string
		tourID    string
		userID    string
		existing  int64
		countErr  error
		writerErr error
		wantCount bool
		wantSave  bool
		wantErr   error
	}{
		{
			name:      "first review on tour",
			tourID:    tourID.Hex(),
			userID:    userID.Hex(),
			wantCount: true,
			wantSave:  true,
		},
		{
			name:      "second review on same tour",
			tourID:    tourID.Hex(),
			userID:    userID.Hex(),
			existing:  1,
			wantCount: true,
			wantErr:   services.ErrAlreadyReviewed,
		},
		{
			name:    "malformed tour id",
			tourID:  "nope",
			userID:  userID.Hex(),
			wantErr: services.ErrTourNotFound,
		},
		{
			name:    "malformed user id",
			tourID:  tourID.Hex(),
			userID:  "nope",
			wantErr: services.ErrUserNotFound,
		},
		{
			name:      "count error",
			tourID:    tourID.Hex(),
			userID:    userID.Hex(),
			countErr:  errors.New("db error"),
			wantCount: true,
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			tourID:    tourID.Hex(),
			userID:    userID.Hex(),
			writerErr: errors.New("save error"),
			wantCount: true,
			wantSave:  true,
			wantErr:   errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCount {
				mockReader.EXPECT().
					CountByTourAndUser(gomock.Any(), tourID, userID).
					Return(tt.existing, tt.countErr)
			}
			if tt.wantSave {
				mockWriter.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(primitive.NewObjectID(), tt.writerErr)
			}

			review, err := svc.Create(context.Background(), tt.tourID, tt.userID, "Loved it!", 5)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, review)
				assert.Equal(t, tourID, review.Tour)
				assert.Equal(t, userID, review.User)
				assert.Equal(t, float64(5), review.Rating)
			}
		})
	}
}

func TestReviewService_ListByTour(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockReviewReader(ctrl)
	svc := services.NewReviewService(mockReader, services.NewMockReviewWriter(ctrl))

	tourID := primitive.NewObjectID()
	reviews := []models.Review{{Review: "Great"}, {Review: "Okay"}}

	t.Run("lists", func(t *testing.T) {
		mockReader.EXPECT().
			ListByTour(gomock.Any(), tourID).
			Return(reviews, nil)

		got, err := svc.ListByTour(context.Background(), tourID.Hex())
		require.NoError(t, err)
		assert.Equal(t, reviews, got)
	})

	t.Run("malformed tour id", func(t *testing.T) {
		_, err := svc.ListByTour(context.Background(), "nope")
		assert.ErrorIs(t, err, services.ErrTourNotFound)
	})
}

func TestReviewService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := services.NewMockReviewWriter(ctrl)
	svc := services.NewReviewService(services.NewMockReviewReader(ctrl), mockWriter)

	reviewID := primitive.NewObjectID()

	t.Run("deleted", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), reviewID).
			Return(int64(1), nil)

		assert.NoError(t, svc.Delete(context.Background(), reviewID.Hex()))
	})

	t.Run("no rows", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), reviewID).
			Return(int64(0), nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), reviewID.Hex()), services.ErrReviewNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(context.Background(), "nope"), services.ErrReviewNotFound)
	})
}
