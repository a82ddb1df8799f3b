package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fluffle/apiserver/internal/apperr"
)

// ErrorResponse is the failure body for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeAppError maps an error's kind to an HTTP status. The body stays
// {"error": "<message>"} regardless of kind.
func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	}
	writeError(w, status, apperr.Message(err))
}

// queryString returns the named query parameter, trimmed.
func queryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// queryAll returns every value of the named parameter, accepting both the
// bare name and the bracketed array notation the map client sends.
func queryAll(r *http.Request, name string) []string {
	q := r.URL.Query()
	values := q[name]
	if len(values) == 0 {
		values = q[name+"[]"]
	}
	return values
}

// queryFloat parses the named parameter as a float, reporting whether a
// numeric value was present.
func queryFloat(r *http.Request, name string) (float64, bool) {
	raw := queryString(r, name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// queryInt parses the named parameter as an int, yielding 0 for missing or
// non-numeric values so downstream validation can reject them.
func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(queryString(r, name))
	if err != nil {
		return 0
	}
	return value
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
