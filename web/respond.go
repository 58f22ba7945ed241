/* respond.go
 * Contains the JSON encoding helpers and the mapping from domain error codes to HTTP statuses
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"hackathon-engine/api/shared"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies, round 1 code submissions are the largest
const maxBodyBytes = 1 << 20

// statusOf maps a domain error code to its HTTP status
func statusOf(code shared.Code) int {
	switch code {
	case shared.CodeValidation:
		return http.StatusBadRequest
	case shared.CodeNotFound:
		return http.StatusNotFound
	case shared.CodeConflict, shared.CodeInvalidTransition:
		return http.StatusConflict
	case shared.CodePermission:
		return http.StatusForbidden
	case shared.CodeTimeWindow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a domain error as JSON. Collaborator failures are logged and their cause is not exposed
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := shared.CodeOf(err)
	message := "service unavailable, try again later"
	var domainErr *shared.Error
	if code != shared.CodeUnavailable && errors.As(err, &domainErr) {
		message = domainErr.Message
	} else {
		s.logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, statusOf(code), errorResponse{Code: string(code), Error: message})
}

// decodeJSON reads the request body into v, returning a validation error for malformed input
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.ValidationError("request body is required")
		}
		return shared.ValidationError(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
