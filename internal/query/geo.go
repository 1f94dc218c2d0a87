package query

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Earth's mean radius, used to convert a distance into an angular radius.
const (
	EarthRadiusMi = 3963.2
	EarthRadiusKm = 6378.1
)

// Distance multipliers applied to raw $geoNear meter distances.
const (
	MetersToMi = 0.000621371
	MetersToKm = 0.001
)

// ParseLatLng splits a "lat,lng" path segment into coordinates.
func ParseLatLng(latlng string) (lat, lng float64, err error) {
	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidLatLng
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, ErrInvalidLatLng
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, ErrInvalidLatLng
	}

	return lat, lng, nil
}

// Radius converts a distance in the given unit into an angular radius.
// "mi" divides by the Earth radius in miles, anything else by kilometers.
func Radius(distance float64, unit string) float64 {
	if unit == "mi" {
		return distance / EarthRadiusMi
	}
	return distance / EarthRadiusKm
}

// DistanceMultiplier scales raw meter distances into the requested unit.
func DistanceMultiplier(unit string) float64 {
	if unit == "mi" {
		return MetersToMi
	}
	return MetersToKm
}

// WithinFilter builds a spherical containment filter centered at lat,lng.
// MongoDB expects coordinates in [lng, lat] order.
func WithinFilter(lat, lng, radius float64) bson.M {
	return bson.M{
		"startLocation": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}
}

// DistancesPipeline builds a nearest-first distance-annotated query from the
// given point, projecting only distance and name.
func DistancesPipeline(lat, lng, multiplier float64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
		}}},
		{{Key: "$project", Value: bson.M{
			"distance": 1,
			"name":     1,
		}}},
	}
}

// StatsPipeline groups tours by upper-cased difficulty, restricted to tours
// rated 4.5 or better, sorted ascending by average price.
func StatsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"ratingsAverage": bson.M{"$gte": 4.5},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}
}

// MonthlyPlanPipeline expands multi-date tours into one row per start date,
// keeps dates within the given calendar year, and groups starts by month,
// busiest month first.
func MonthlyPlanPipeline(year int) mongo.Pipeline {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
	}
}
