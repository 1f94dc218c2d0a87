package middlewares

import "net/http"

// topToursDefaults are filled in for any reserved key the caller did not
// supply. Caller-supplied values always win.
var topToursDefaults = map[string]string{
	"limit":  "5",
	"sort":   "-ratingAverage,price",
	"fields": "name,price,ratingAverage,summary,difficulty",
}

// TopToursAlias pre-populates the query parameters of the "top N tours"
// endpoint so it behaves as a curated alias over the plain list endpoint.
func TopToursAlias(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for key, value := range topToursDefaults {
			if q.Get(key) == "" {
				q.Set(key, value)
			}
		}
		r.URL.RawQuery = q.Encode()

		next.ServeHTTP(w, r)
	})
}
