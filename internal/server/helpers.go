package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteDomainError maps typed calculation errors to HTTP statuses.
// Anything else is reported as a 500 without detail.
func WriteDomainError(w http.ResponseWriter, err error) {
	var valErr *models.ValidationError
	var compErr *models.ComputationError
	var acqErr *models.AcquisitionError

	switch {
	case errors.As(err, &valErr):
		WriteErrorWithCode(w, http.StatusBadRequest, valErr.Error(), valErr.Code())
	case errors.As(err, &compErr):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, compErr.Error(), compErr.Code())
	case errors.As(err, &acqErr):
		// the wrapped cause stays in the logs; users get the message only
		WriteErrorWithCode(w, http.StatusBadGateway, acqErr.Message, acqErr.Code())
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// WritePNG writes a PNG image with a 200 status. The write error is returned
// for the caller to log; headers are already sent by then.
func WritePNG(w http.ResponseWriter, data []byte) error {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(data)
	return err
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.Body == http.NoBody {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "Invalid JSON: "+err.Error(), models.CodeValidation)
		return false
	}
	return true
}
