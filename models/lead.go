package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 UTC format createdAt is persisted with.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Lead is a single intake submission from the marketing site.
// Optional fields (Phone, Notes) are "" when not provided.
type Lead struct {
	Name      string    `json:"name"`
	Business  string    `json:"business"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Service   string    `json:"service"`
	Timeframe string    `json:"timeframe"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

type leadJSON struct {
	Name      string `json:"name"`
	Business  string `json:"business"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Service   string `json:"service"`
	Timeframe string `json:"timeframe"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
}

// MarshalJSON writes createdAt with millisecond precision in UTC.
func (l Lead) MarshalJSON() ([]byte, error) {
	return json.Marshal(leadJSON{
		Name:      l.Name,
		Business:  l.Business,
		Phone:     l.Phone,
		Email:     l.Email,
		Service:   l.Service,
		Timeframe: l.Timeframe,
		Notes:     l.Notes,
		CreatedAt: FormatTimestamp(l.CreatedAt),
	})
}

// UnmarshalJSON accepts any RFC 3339 createdAt. A missing or malformed
// createdAt is an error: every persisted record carries one.
func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw leadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid createdAt %q: %w", raw.CreatedAt, err)
	}
	*l = Lead{
		Name:      raw.Name,
		Business:  raw.Business,
		Phone:     raw.Phone,
		Email:     raw.Email,
		Service:   raw.Service,
		Timeframe: raw.Timeframe,
		Notes:     raw.Notes,
		CreatedAt: createdAt.UTC(),
	}
	return nil
}

// FormatTimestamp renders t in TimestampLayout, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// LeadResponse is the flattened row used by exports.
type LeadResponse struct {
	Name      string
	Business  string
	Phone     string
	Email     string
	Service   string
	Timeframe string
	Notes     string
	CreatedAt string
}

// ToResponse converts Lead to LeadResponse with formatted timestamps
func (l *Lead) ToResponse() LeadResponse {
	return LeadResponse{
		Name:      l.Name,
		Business:  l.Business,
		Phone:     l.Phone,
		Email:     l.Email,
		Service:   l.Service,
		Timeframe: l.Timeframe,
		Notes:     l.Notes,
		CreatedAt: FormatTimestamp(l.CreatedAt),
	}
}
