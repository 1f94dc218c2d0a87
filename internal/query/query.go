package query

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultLimit is applied when the limit parameter is absent or unusable.
const DefaultLimit = 5

// ErrInvalidLatLng is returned when a lat,lng pair is missing or unparsable.
var ErrInvalidLatLng = errors.New("please provide latitude and longitude in the format lat,lng")

// reserved query parameters consumed by the builder itself; everything else
// becomes a filter on the corresponding document field.
var reserved = map[string]struct{}{
	"limit":  {},
	"sort":   {},
	"fields": {},
}

// Options is a parsed list query ready to hand to the document store.
type Options struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Limit      int64
}

// Parse translates flat HTTP query parameters into list options.
//
// Non-reserved keys become equality filters; field names are passed through
// without validation, the datastore does the final type check. The sort value
// is a comma-separated field list, "-" prefix meaning descending, list order
// defining tie-break precedence. The fields value is a comma-separated
// inclusion projection. Limit must parse to a positive integer, anything else
// falls back to DefaultLimit. There is no page/skip support.
func Parse(values url.Values) Options {
	opts := Options{
		Filter: bson.M{},
		Limit:  DefaultLimit,
	}

	for key := range values {
		if _, ok := reserved[key]; ok {
			continue
		}
		opts.Filter[key] = coerce(values.Get(key))
	}

	if sort := values.Get("sort"); sort != "" {
		for _, field := range strings.Split(sort, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			order := 1
			if strings.HasPrefix(field, "-") {
				order = -1
				field = field[1:]
			}
			opts.Sort = append(opts.Sort, bson.E{Key: field, Value: order})
		}
	}

	if fields := values.Get("fields"); fields != "" {
		opts.Projection = bson.M{}
		for _, field := range strings.Split(fields, ",") {
			field = strings.TrimSpace(field)
			if field != "" {
				opts.Projection[field] = 1
			}
		}
	}

	if limit := values.Get("limit"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n > 0 {
			opts.Limit = n
		}
	}

	return opts
}

// coerce maps a raw string parameter onto the BSON type it most likely
// represents, so numeric and boolean filters compare against typed fields.
func coerce(raw string) any {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
