package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
	"github.com/ndewijer/Fund-Investment-Results/internal/validation"
)

// maxBodyBytes bounds request bodies; investment imports are the largest payload.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}

// calculationStatusCode maps a calculation status to the HTTP status of the response.
func calculationStatusCode(status model.CalculationStatus) int {
	switch status {
	case model.StatusSuccess, model.StatusNoOp:
		return http.StatusOK
	case model.StatusPartialFailure:
		return http.StatusPartialContent
	case model.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// importStatusCode maps an import report status to the HTTP status of the response.
// Entries that failed individually are reported in the body with 206.
func importStatusCode(status string) int {
	if status == service.ImportFailed {
		return http.StatusPartialContent
	}
	return http.StatusOK
}

func isValidationError(err error) bool {
	var vErr *validation.Error
	return errors.As(err, &vErr)
}
