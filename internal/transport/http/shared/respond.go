package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "aqualert/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError centralizes domain error translation to HTTP responses so every
// handler produces the same JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, toHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": publicMessage(code, err),
	})
}

func toHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps internal detail out of responses. Unauthorized stays
// deliberately generic so callers cannot probe which credential check failed.
func publicMessage(code dErrors.Code, err error) string {
	switch code {
	case dErrors.CodeUnauthorized:
		return "only official environmental organizations with valid credentials may report incidents"
	case dErrors.CodeInternal:
		return "internal error"
	default:
		var de *dErrors.Error
		if errors.As(err, &de) {
			return de.Message
		}
		return "request failed"
	}
}
