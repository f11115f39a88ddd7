package web

// helpers.go holds shared request/response utilities for the handlers.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
// Negative values fall back to the default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// timeLayouts are the accepted formats for timestamps in query parameters
// and request bodies: full RFC 3339 or a bare date.
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

// parseTimeParam reads an optional timestamp query parameter. Returns nil
// when absent, an error when present but unparseable.
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD or RFC 3339", name, val)
}

// apiTime is a time.Time accepting both RFC 3339 timestamps and bare
// YYYY-MM-DD dates in JSON bodies.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid time %q: expected YYYY-MM-DD or RFC 3339", s)
}
