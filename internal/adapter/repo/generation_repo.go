package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// GenerationRepositoryPG implements domain.GenerationRepository backed by PostgreSQL.
type GenerationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a new GenerationRepositoryPG.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{pool: pool}
}

// Create inserts a generation in pending state and returns its id.
func (r *GenerationRepositoryPG) Create(ctx context.Context, gen *domain.Generation) (int64, error) {
	query := `
INSERT INTO generations (lead_id, prompt, additional_prompt, logo_filename, status)
VALUES ($1, $2, $3, $4, 'pending')
RETURNING id;
`
	var id int64
	if err := r.pool.QueryRow(ctx, query, gen.LeadID, gen.Prompt, gen.AdditionalPrompt, gen.LogoFilename).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// MarkSucceeded applies the terminal success transition in one statement.
func (r *GenerationRepositoryPG) MarkSucceeded(ctx context.Context, id int64, imageURL, description string) error {
	query := `
UPDATE generations
SET status = 'succeeded', image_url = $2, description = $3, completed_at = NOW()
WHERE id = $1 AND status = 'pending';
`
	_, err := r.pool.Exec(ctx, query, id, imageURL, description)
	return err
}

// MarkFailed applies the terminal failure transition in one statement.
func (r *GenerationRepositoryPG) MarkFailed(ctx context.Context, id int64, reason string) error {
	query := `
UPDATE generations
SET status = 'failed', fail_reason = $2, completed_at = NOW()
WHERE id = $1 AND status = 'pending';
`
	_, err := r.pool.Exec(ctx, query, id, reason)
	return err
}

// GetByID fetches a single generation.
func (r *GenerationRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Generation, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, lead_id, prompt, additional_prompt, logo_filename, status, image_url, description, fail_reason, created_at, completed_at
FROM generations
WHERE id = $1`, id)
	return scanGeneration(row)
}

// ListByEmail returns all generations for the lead owning the email, newest first.
func (r *GenerationRepositoryPG) ListByEmail(ctx context.Context, email string) ([]domain.Generation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT g.id, g.lead_id, g.prompt, g.additional_prompt, g.logo_filename, g.status, g.image_url, g.description, g.fail_reason, g.created_at, g.completed_at
FROM generations g
JOIN leads l ON l.id = g.lead_id
WHERE l.email = $1
ORDER BY g.created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Generation
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *gen)
	}
	return items, rows.Err()
}

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	var (
		g           domain.Generation
		addPrompt   *string
		logoName    *string
		imageURL    *string
		description *string
		failReason  *string
	)
	if err := row.Scan(&g.ID, &g.LeadID, &g.Prompt, &addPrompt, &logoName, &g.Status, &imageURL, &description, &failReason, &g.CreatedAt, &g.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	g.AdditionalPrompt = deref(addPrompt)
	g.LogoFilename = deref(logoName)
	g.ImageURL = deref(imageURL)
	g.Description = deref(description)
	g.FailReason = deref(failReason)
	return &g, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ domain.GenerationRepository = (*GenerationRepositoryPG)(nil)
