package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUID(t *testing.T) {
	id := uuid.New()

	rec := httptest.NewRecorder()
	got, ok := parseUUID(rec, id.String(), "student_id")
	require.True(t, ok)
	assert.Equal(t, id, got)

	for _, value := range []string{"", "nope", "123e4567-e89b-12d3-a456"} {
		rec := httptest.NewRecorder()
		got, ok := parseUUID(rec, value, "student_id")
		assert.False(t, ok, value)
		assert.Equal(t, uuid.Nil, got)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "Invalid student_id", body["message"])
	}
}
