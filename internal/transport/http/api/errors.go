package api

import (
	"log/slog"
	"net/http"

	"perfreview/internal/domain/review"
)

// StatusForKind maps a review error kind onto an HTTP status.
func StatusForKind(kind string) int {
	switch kind {
	case "unauthorized":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "already_submitted", "invalid_state_transition":
		return http.StatusConflict
	case "deadline_passed", "incomplete_submission":
		return http.StatusUnprocessableEntity
	case "invalid_input":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FailError writes err using its review kind. Unclassified errors are logged
// and reported without their message.
func FailError(w http.ResponseWriter, err error, requestID string) {
	kind := review.Kind(err)
	status := StatusForKind(kind)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "requestId", requestID, "err", err)
		Fail(w, status, "internal", "internal error", requestID)
		return
	}
	Fail(w, status, kind, err.Error(), requestID)
}
