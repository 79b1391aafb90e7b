package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/auth"
)

// maxRequestBodyBytes caps JSON request bodies.
const maxRequestBodyBytes = 64 << 10

// maxPathIDLength bounds directory ids taken from the path.
const maxPathIDLength = 128

// ParseSupervisorID extracts the supervisor ID from the request path.
// Returns the ID and true on success, or "" and false on error
// (after writing an error response).
// Expects path parameter: sid
func ParseSupervisorID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parsePathID(w, r, "sid", "invalid_supervisor_id", "Invalid supervisor ID", logger)
}

// parsePathID is the internal helper that does the actual parsing work.
func parsePathID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (string, bool) {
	id := strings.TrimSpace(r.PathValue(pathParam))
	if id == "" || len(id) > maxPathIDLength {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return id, true
}

// requireUserID reads the session subject set by the auth middleware.
// Writes 401 and returns false when it is missing.
func requireUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	userID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return userID, true
}

// decodeJSONBody decodes a size-limited JSON body into dst.
// Writes 400 and returns false on malformed input.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	return true
}
