package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// LeadRepositoryPG implements domain.LeadRepository backed by PostgreSQL.
type LeadRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new LeadRepositoryPG.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepositoryPG {
	return &LeadRepositoryPG{pool: pool}
}

// UpsertByEmail inserts or refreshes a lead keyed by email. The unique
// constraint on email makes concurrent upserts for the same address converge
// on one row; empty incoming name/phone never clobber stored values.
func (r *LeadRepositoryPG) UpsertByEmail(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	query := `
INSERT INTO leads (email, name, phone)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE
SET name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
    phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
    updated_at = NOW()
RETURNING id, email, name, phone, created_at, updated_at;
`

	row := r.pool.QueryRow(ctx, query, lead.Email, lead.Name, lead.Phone)
	return scanLead(row)
}

// GetByEmail fetches a lead by its email key.
func (r *LeadRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, name, phone, created_at, updated_at FROM leads WHERE email = $1`, email)
	return scanLead(row)
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var l domain.Lead
	if err := row.Scan(&l.ID, &l.Email, &l.Name, &l.Phone, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

var _ domain.LeadRepository = (*LeadRepositoryPG)(nil)
