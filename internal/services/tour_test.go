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

	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/query"
	"github.com/TechsCEO/huma-tour/internal/services"
)

func TestTourService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	mockWriter := services.NewMockTourWriter(ctrl)

	svc := services.NewTourService(mockReader, mockWriter, nil)

	tourID := primitive.NewObjectID()
	knownTour := &models.Tour{ID: tourID, Name: "The Forest Hiker"}

	tests := []struct {
		name      string
		tourID    string
		tour      *models.Tour
		readerErr error
		wantCall  bool
		wantErr   error
	}{
		{
			name:     "found",
			tourID:   tourID.Hex(),
			tour:     knownTour,
			wantCall: true,
		},
		{
			name:     "not found",
			tourID:   primitive.NewObjectID().Hex(),
			wantCall: true,
			wantErr:  services.ErrTourNotFound,
		},
		{
			name:    "malformed id",
			tourID:  "not-an-object-id",
			wantErr: services.ErrTourNotFound,
		},
		{
			name:      "reader error",
			tourID:    tourID.Hex(),
			readerErr: errors.New("db error"),
			wantCall:  true,
			wantErr:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCall {
				id, err := primitive.ObjectIDFromHex(tt.tourID)
				require.NoError(t, err)
				mockReader.EXPECT().
					GetByID(gomock.Any(), id).
					Return(tt.tour, tt.readerErr)
			}

			tour, err := svc.Get(context.Background(), tt.tourID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, tour)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, knownTour, tour)
			}
		})
	}
}

func TestTourService_Create_SetsSlug(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	mockWriter := services.NewMockTourWriter(ctrl)

	svc := services.NewTourService(mockReader, mockWriter, nil)

	mockWriter.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tour *models.Tour) (primitive.ObjectID, error) {
			assert.Equal(t, "the-forest-hiker", tour.Slug)
			return primitive.NewObjectID(), nil
		})

	tour, err := svc.Create(context.Background(), &models.Tour{Name: "The Forest Hiker"})
	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
}

func TestTourService_Update_RefreshesSlugOnRename(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	mockWriter := services.NewMockTourWriter(ctrl)

	svc := services.NewTourService(mockReader, mockWriter, nil)

	tourID := primitive.NewObjectID()
	mockWriter.EXPECT().
		Update(gomock.Any(), tourID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ primitive.ObjectID, fields bson.M) (*models.Tour, error) {
			assert.Equal(t, "the-sea-explorer", fields["slug"])
			return &models.Tour{ID: tourID, Name: "The Sea Explorer", Slug: "the-sea-explorer"}, nil
		})

	tour, err := svc.Update(context.Background(), tourID.Hex(), bson.M{"name": "The Sea Explorer"})
	require.NoError(t, err)
	assert.Equal(t, "the-sea-explorer", tour.Slug)
}

func TestTourService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	mockWriter := services.NewMockTourWriter(ctrl)

	svc := services.NewTourService(mockReader, mockWriter, nil)

	tourID := primitive.NewObjectID()

	t.Run("deleted", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), tourID).
			Return(int64(1), nil)

		assert.NoError(t, svc.Delete(context.Background(), tourID.Hex()))
	})

	t.Run("no rows", func(t *testing.T) {
		mockWriter.EXPECT().
			Delete(gomock.Any(), tourID).
			Return(int64(0), nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), tourID.Hex()), services.ErrTourNotFound)
	})
}

func TestTourService_Stats_CacheAside(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stats := []models.TourStats{{Difficulty: "EASY", NumTours: 3, AvgPrice: 400}}

	t.Run("cache hit skips aggregation", func(t *testing.T) {
		mockReader := services.NewMockTourReader(ctrl)
		mockCache := services.NewMockStatsCache(ctrl)
		svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), mockCache)

		mockCache.EXPECT().GetStats(gomock.Any()).Return(stats, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("cache miss aggregates and stores", func(t *testing.T) {
		mockReader := services.NewMockTourReader(ctrl)
		mockCache := services.NewMockStatsCache(ctrl)
		svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), mockCache)

		mockCache.EXPECT().GetStats(gomock.Any()).Return(nil, errors.New("cache miss"))
		mockReader.EXPECT().Stats(gomock.Any()).Return(stats, nil)
		mockCache.EXPECT().SetStats(gomock.Any(), stats).Return(nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("cache store failure is not fatal", func(t *testing.T) {
		mockReader := services.NewMockTourReader(ctrl)
		mockCache := services.NewMockStatsCache(ctrl)
		svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), mockCache)

		mockCache.EXPECT().GetStats(gomock.Any()).Return(nil, errors.New("cache miss"))
		mockReader.EXPECT().Stats(gomock.Any()).Return(stats, nil)
		mockCache.EXPECT().SetStats(gomock.Any(), stats).Return(errors.New("redis down"))

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("nil cache goes straight to aggregation", func(t *testing.T) {
		mockReader := services.NewMockTourReader(ctrl)
		svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), nil)

		mockReader.EXPECT().Stats(gomock.Any()).Return(stats, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stats, got)
	})
}

func TestTourService_Within(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), nil)

	t.Run("converts distance to radians per unit", func(t *testing.T) {
		mockReader.EXPECT().
			Within(gomock.Any(), 34.111745, -118.113491, 233/query.EarthRadiusMi).
			Return([]models.Tour{}, nil)

		_, err := svc.Within(context.Background(), 233, "34.111745,-118.113491", "mi")
		assert.NoError(t, err)
	})

	t.Run("malformed latlng", func(t *testing.T) {
		_, err := svc.Within(context.Background(), 233, "34.111745", "mi")
		assert.ErrorIs(t, err, query.ErrInvalidLatLng)
	})
}

func TestTourService_Distances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), nil)

	t.Run("uses unit multiplier", func(t *testing.T) {
		mockReader.EXPECT().
			Distances(gomock.Any(), 34.111745, -118.113491, query.MetersToKm).
			Return([]models.TourDistance{}, nil)

		_, err := svc.Distances(context.Background(), "34.111745,-118.113491", "km")
		assert.NoError(t, err)
	})

	t.Run("malformed latlng", func(t *testing.T) {
		_, err := svc.Distances(context.Background(), ",", "km")
		assert.ErrorIs(t, err, query.ErrInvalidLatLng)
	})
}

func TestTourService_MonthlyPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockTourReader(ctrl)
	svc := services.NewTourService(mockReader, services.NewMockTourWriter(ctrl), nil)

	plan := []models.MonthlyPlanEntry{{Month: 7, NumTourStarts: 3}}
	mockReader.EXPECT().MonthlyPlan(gomock.Any(), 2021).Return(plan, nil)

	got, err := svc.MonthlyPlan(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, plan, got)
}
