package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	memberdomain "membership-admin/internal/domain/member"
)

func memberIDParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	return id, nil
}

// parseQuery reads the search text and status filter. An unknown status is rejected.
func parseQuery(values url.Values) (memberdomain.Query, error) {
	q := memberdomain.Query{
		Text:   strings.TrimSpace(values.Get("q")),
		Status: strings.TrimSpace(values.Get("status")),
	}
	if q.Status != "" && !memberdomain.IsKnownStatus(q.Status) {
		return memberdomain.Query{}, fmt.Errorf("unknown status %q", q.Status)
	}
	return q, nil
}
