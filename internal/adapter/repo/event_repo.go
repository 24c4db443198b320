package repo

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// EventRepositoryPG implements domain.EventRepository using PostgreSQL.
// The events table is append-only; nothing in the service reads it back.
type EventRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewEventRepository constructs the repository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepositoryPG {
	return &EventRepositoryPG{pool: pool}
}

// Insert appends a single analytics event.
func (r *EventRepositoryPG) Insert(ctx context.Context, ev *domain.TrackEvent) error {
	meta := ev.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO events (event, variant, meta, ip, country)
VALUES ($1, $2, $3, $4, $5);
`, ev.Event, ev.Variant, metaBytes, ev.IP, ev.Country)
	return err
}

var _ domain.EventRepository = (*EventRepositoryPG)(nil)
