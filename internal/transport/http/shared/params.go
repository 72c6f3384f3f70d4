package shared

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"perfreview/internal/domain/review"
)

func CycleIDParam(r *http.Request) (review.ReviewCycleID, error) {
	return review.ParseReviewCycleID(chi.URLParam(r, "cycleID"))
}

func UserIDParam(r *http.Request, name string) (review.UserID, error) {
	return review.ParseUserID(chi.URLParam(r, name))
}

// BoolQuery reads a boolean query parameter, treating anything unparsable as false.
func BoolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return err == nil && v
}
