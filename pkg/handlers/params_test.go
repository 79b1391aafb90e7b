package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseSupervisorID(t *testing.T) {
	tests := []struct {
		name      string
		pathValue string
		wantOK    bool
		wantID    string
	}{
		{"uuid", "550e8400-e29b-41d4-a716-446655440000", true, "550e8400-e29b-41d4-a716-446655440000"},
		{"short id", "a", true, "a"},
		{"blank", "  ", false, ""},
		{"too long", strings.Repeat("x", maxPathIDLength+1), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/suggestions/x/contact", nil)
			req.SetPathValue("sid", tt.pathValue)
			rec := httptest.NewRecorder()

			id, ok := ParseSupervisorID(rec, req, zap.NewNop())

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}
