package validators

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signUpBody struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,strongpassword"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func newRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	assert.NoError(t, err)
	return r
}

func TestDecodeJSONBody_Valid(t *testing.T) {
	var dst signUpBody
	err := DecodeJSONBody(newRequest(t, `{
		"name": "Alice",
		"email": "alice@example.com",
		"password": "Abc12345!",
		"passwordConfirm": "Abc12345!"
	}`), &dst)

	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", dst.Email)
}

func TestDecodeJSONBody_InvalidJSON(t *testing.T) {
	var dst signUpBody
	err := DecodeJSONBody(newRequest(t, `{not json}`), &dst)

	assert.Error(t, err)
	var verr *ValidationError
	assert.NotErrorAs(t, err, &verr)
}

func TestDecodeJSONBody_CollectsEveryFailingField(t *testing.T) {
	var dst signUpBody
	err := DecodeJSONBody(newRequest(t, `{
		"email": "not-an-email",
		"password": "short",
		"passwordConfirm": "different"
	}`), &dst)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "must be a valid email", verr.Fields["email"])
	assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])
	assert.Equal(t, "does not match Password", verr.Fields["passwordConfirm"])
	assert.Len(t, verr.Fields, 4)
}

func TestDecodeJSONBody_WeakPassword(t *testing.T) {
	var dst signUpBody
	err := DecodeJSONBody(newRequest(t, `{
		"name": "Alice",
		"email": "alice@example.com",
		"password": "alllowercase1",
		"passwordConfirm": "alllowercase1"
	}`), &dst)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "must contain upper and lower case letters, a number, and a symbol", verr.Fields["password"])
	assert.Len(t, verr.Fields, 1)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"email": "is required"}}
	assert.Equal(t, "validation failed", err.Error())
}
