package httpadapter

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		value      any
		wantStatus int
		wantKey    string
	}{
		{"encodable value", http.StatusOK, map[string]float64{"loss": 1.5}, http.StatusOK, "loss"},
		{"non-finite value", http.StatusOK, map[string]float64{"loss": math.NaN()}, http.StatusInternalServerError, "error"},
		{"channel", http.StatusCreated, make(chan int), http.StatusInternalServerError, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeJSON(rec, tt.status, tt.value)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body is complete JSON")
			assert.Contains(t, body, tt.wantKey)
		})
	}
}
