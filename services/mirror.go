package services

import (
	"context"
	"database/sql"
	"fmt"

	"lead-intake/models"
)

// Execer is the subset of *sql.DB the mirror uses.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LeadMirror copies stored leads into the Postgres reporting table.
// (email, created_at) identifies a row, so replays are harmless.
type LeadMirror struct {
	db Execer
}

func NewLeadMirror(db Execer) *LeadMirror {
	return &LeadMirror{db: db}
}

func (m *LeadMirror) Name() string { return "postgres" }

const insertLeadQuery = `
	INSERT INTO leads (
		name, business, phone, email, service, timeframe, notes, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (email, created_at) DO NOTHING`

// LeadStored implements LeadListener.
func (m *LeadMirror) LeadStored(ctx context.Context, lead models.Lead) error {
	_, err := m.db.ExecContext(ctx, insertLeadQuery,
		lead.Name,
		lead.Business,
		lead.Phone,
		lead.Email,
		lead.Service,
		lead.Timeframe,
		lead.Notes,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error mirroring lead: %w", err)
	}
	return nil
}
