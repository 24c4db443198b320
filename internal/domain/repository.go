package domain

import "context"

// LeadRepository defines persistence for contact leads.
type LeadRepository interface {
	// UpsertByEmail inserts a lead or refreshes name/phone on conflict.
	// Non-empty incoming values win over stored ones (last write wins).
	UpsertByEmail(ctx context.Context, lead *Lead) (*Lead, error)
	GetByEmail(ctx context.Context, email string) (*Lead, error)
}

// GenerationRepository defines persistence for generation attempts.
type GenerationRepository interface {
	Create(ctx context.Context, gen *Generation) (int64, error)
	// MarkSucceeded and MarkFailed each apply the terminal transition as a
	// single statement so readers never observe a partial update.
	MarkSucceeded(ctx context.Context, id int64, imageURL, description string) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	GetByID(ctx context.Context, id int64) (*Generation, error)
	ListByEmail(ctx context.Context, email string) ([]Generation, error)
}

// EventRepository appends analytics events. Writes are best-effort.
type EventRepository interface {
	Insert(ctx context.Context, ev *TrackEvent) error
}
