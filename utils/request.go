package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lead-intake/errors"
)

// DecodeUntyped decodes a single JSON value from r into its generic form
// (map[string]any, []any, string, float64, bool or nil). Trailing data is an error.
func DecodeUntyped(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// TimeFilterParams holds parsed time filter parameters
type TimeFilterParams struct {
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Match reports whether t falls inside the filter window (bounds inclusive).
func (p *TimeFilterParams) Match(t time.Time) bool {
	if p.CreatedAfter != nil && t.Before(*p.CreatedAfter) {
		return false
	}
	if p.CreatedBefore != nil && t.After(*p.CreatedBefore) {
		return false
	}
	return true
}

// ParseTimeFilters extracts and validates time filter query parameters from HTTP request
func ParseTimeFilters(r *http.Request) (*TimeFilterParams, error) {
	params := &TimeFilterParams{}

	if str := r.URL.Query().Get("created_after"); str != "" {
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return nil, errors.NewInvalidParamsError("invalid created_after format. Use RFC3339 (e.g., 2025-11-13T10:00:00Z)")
		}
		params.CreatedAfter = &parsed
	}

	if str := r.URL.Query().Get("created_before"); str != "" {
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return nil, errors.NewInvalidParamsError("invalid created_before format. Use RFC3339 (e.g., 2025-11-13T10:00:00Z)")
		}
		params.CreatedBefore = &parsed
	}

	return params, nil
}
