package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParse_Defaults(t *testing.T) {
	opts := Parse(url.Values{})

	assert.Equal(t, bson.M{}, opts.Filter)
	assert.Nil(t, opts.Sort)
	assert.Nil(t, opts.Projection)
	assert.Equal(t, int64(DefaultLimit), opts.Limit)
}

func TestParse_SortFieldsLimit(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "-price,name")
	values.Set("limit", "2")
	values.Set("fields", "name,price")

	opts := Parse(values)

	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "name", Value: 1},
	}, opts.Sort)
	assert.Equal(t, bson.M{"name": 1, "price": 1}, opts.Projection)
	assert.Equal(t, int64(2), opts.Limit)
	assert.Empty(t, opts.Filter, "reserved keys must not leak into the filter")
}

func TestParse_FilterCoercion(t *testing.T) {
	values := url.Values{}
	values.Set("difficulty", "easy")
	values.Set("price", "500")
	values.Set("secretTour", "false")

	opts := Parse(values)

	assert.Equal(t, bson.M{
		"difficulty": "easy",
		"price":      float64(500),
		"secretTour": false,
	}, opts.Filter)
}

func TestParse_InvalidLimitFallsBack(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-3", "1.5"} {
		t.Run(limit, func(t *testing.T) {
			values := url.Values{}
			values.Set("limit", limit)

			opts := Parse(values)
			assert.Equal(t, int64(DefaultLimit), opts.Limit)
		})
	}
}

func TestParseLatLng(t *testing.T) {
	lat, lng, err := ParseLatLng("34.111745,-118.113491")
	assert.NoError(t, err)
	assert.InDelta(t, 34.111745, lat, 1e-9)
	assert.InDelta(t, -118.113491, lng, 1e-9)

	for _, bad := range []string{"", "34.1", "34.1,", ",-118.1", "a,b", "34.1,-118.1,5"} {
		t.Run(bad, func(t *testing.T) {
			_, _, err := ParseLatLng(bad)
			assert.ErrorIs(t, err, ErrInvalidLatLng)
		})
	}
}

func TestRadius(t *testing.T) {
	assert.InDelta(t, 100/3963.2, Radius(100, "mi"), 1e-12)
	assert.InDelta(t, 100/6378.1, Radius(100, "km"), 1e-12)
	// Any non-mi unit converts via kilometers
	assert.InDelta(t, 100/6378.1, Radius(100, "furlongs"), 1e-12)
}

func TestDistanceMultiplier(t *testing.T) {
	assert.Equal(t, 0.000621371, DistanceMultiplier("mi"))
	assert.Equal(t, 0.001, DistanceMultiplier("km"))
	assert.Equal(t, 0.001, DistanceMultiplier(""))
}

func TestWithinFilter(t *testing.T) {
	filter := WithinFilter(34.1, -118.1, 0.025)

	geo, ok := filter["startLocation"].(bson.M)
	assert.True(t, ok)
	within, ok := geo["$geoWithin"].(bson.M)
	assert.True(t, ok)
	sphere, ok := within["$centerSphere"].(bson.A)
	assert.True(t, ok)

	// MongoDB takes [lng, lat] plus the angular radius
	assert.Equal(t, bson.A{bson.A{-118.1, 34.1}, 0.025}, sphere)
}

func TestMonthlyPlanPipeline_YearBounds(t *testing.T) {
	pipeline := MonthlyPlanPipeline(2024)
	assert.Len(t, pipeline, 6)

	match := pipeline[1][0]
	assert.Equal(t, "$match", match.Key)
	bounds := match.Value.(bson.M)["startDates"].(bson.M)

	from := bounds["$gte"]
	to := bounds["$lt"]
	assert.NotNil(t, from)
	assert.NotNil(t, to)
}

func TestStatsPipeline_Shape(t *testing.T) {
	pipeline := StatsPipeline()
	assert.Len(t, pipeline, 3)

	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$group", pipeline[1][0].Key)
	assert.Equal(t, "$sort", pipeline[2][0].Key)

	group := pipeline[1][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$toUpper": "$difficulty"}, group["_id"])
}
