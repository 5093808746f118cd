package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
)

// ErrNotFound is matched by StatusFor. Repository not-found errors wrap it.
var ErrNotFound = scoreerrors.ErrNotFound

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status code and writes it as JSON.
func WriteError(w http.ResponseWriter, err error, notFound ...error) {
	status := StatusFor(err, notFound...)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	WriteJSON(w, status, errorBody{Error: msg})
}

// StatusFor maps domain errors to HTTP status codes. Any error in notFound
// maps to 404.
func StatusFor(err error, notFound ...error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			return http.StatusNotFound
		}
	}

	switch {
	case errors.Is(err, scoreerrors.ErrNotAuthorized), errors.Is(err, scoreerrors.ErrMissingApproval):
		return http.StatusForbidden
	case errors.Is(err, scoreerrors.ErrFieldTooLong), errors.Is(err, scoreerrors.ErrScoreOutOfBounds),
		errors.Is(err, scoreerrors.ErrParticipantNotInMerge), errors.Is(err, scoreerrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, scoreerrors.ErrInsufficientCapacityFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, scoreerrors.ErrDuplicateClaim), errors.Is(err, scoreerrors.ErrNoRewardAvailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
