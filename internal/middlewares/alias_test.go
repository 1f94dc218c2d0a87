package middlewares

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopToursAlias_Defaults(t *testing.T) {
	var seen url.Values
	handler := TopToursAlias(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
	}))

	req := httptest.NewRequest(http.MethodGet, "/top-5-tours", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "5", seen.Get("limit"))
	assert.Equal(t, "-ratingAverage,price", seen.Get("sort"))
	assert.Equal(t, "name,price,ratingAverage,summary,difficulty", seen.Get("fields"))
}

func TestTopToursAlias_CallerValuesWin(t *testing.T) {
	var seen url.Values
	handler := TopToursAlias(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
	}))

	req := httptest.NewRequest(http.MethodGet, "/top-5-tours?limit=3", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "3", seen.Get("limit"), "caller-supplied limit must not be overwritten")
	assert.Equal(t, "-ratingAverage,price", seen.Get("sort"))
	assert.Equal(t, "name,price,ratingAverage,summary,difficulty", seen.Get("fields"))
}
