package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/domain/models"
)

func TestRespondError_ProblemWithEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusTooManyRequests, "slow down", map[string]interface{}{"retryAfter": 12})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "slow down", body["message"])
	assert.Equal(t, "slow down", body["detail"])
	assert.Equal(t, float64(429), body["status"])
	assert.Equal(t, float64(12), body["retryAfter"])
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, http.StatusCreated, Envelope{"token": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["token"])
}

func TestOptionalString_Patch(t *testing.T) {
	type req struct {
		Model OptionalString `json:"model"`
	}

	tests := []struct {
		name string
		body string
		want *string
	}{
		{"absent", `{}`, nil},
		{"null resets", `{"model": null}`, strPtr("")},
		{"value", `{"model": "gpt-4o"}`, strPtr("gpt-4o")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r req
			require.NoError(t, json.Unmarshal([]byte(tt.body), &r))
			assert.Equal(t, tt.want, r.Model.Patch())
		})
	}
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Trip"}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), r, &dest))
	assert.Equal(t, "Trip", dest.Title)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.NoError(t, ParseJSON(httptest.NewRecorder(), r, &dest))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	assert.Error(t, ParseJSON(httptest.NewRecorder(), r, &dest))
}

func TestGetCaller_DefaultsToAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, GetCaller(r).IsAnonymous())

	r = WithCaller(r, models.Authenticated(&models.User{ID: 7}))
	id, ok := GetCaller(r).UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func strPtr(s string) *string { return &s }
