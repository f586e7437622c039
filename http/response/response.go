package response

import (
	"encoding/json"
	"net/http"

	"lead-intake/errors"
	"lead-intake/logger"
)

// ErrorBody is the shape of every non-validation error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// SendJSON encodes and sends a JSON response
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// SendPrettyJSON is SendJSON with two-space indentation.
func SendPrettyJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.Error("Error encoding JSON response: %v", err)
		ErrorResponse(w, http.StatusInternalServerError, "Error encoding response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// ErrorResponse sends an error response with given status code and error message
func ErrorResponse(w http.ResponseWriter, statusCode int, errorMsg string) {
	SendJSON(w, statusCode, ErrorBody{Error: errorMsg})
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.Invalid:
		return http.StatusBadRequest
	case errors.Unauthorized:
		return http.StatusUnauthorized
	case errors.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error sends err with the status its kind maps to.
func Error(w http.ResponseWriter, err error) {
	ErrorResponse(w, StatusFor(err), errors.MessageOf(err))
}
