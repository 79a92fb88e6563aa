package topic

import (
	"errors"
	"net/http"
)

var (
	ErrTopicNotFound  = errors.New("topic not found")
	ErrDuplicateTitle = errors.New("a topic with this title already exists")
	ErrValidation     = errors.New("validation failed")
)

// GetHTTPStatusCode maps domain errors to HTTP status codes.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrTopicNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateTitle):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
