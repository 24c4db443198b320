package domain

import "time"

// GenerationStatus enumerates the lifecycle states of a generation attempt.
type GenerationStatus string

const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusSucceeded GenerationStatus = "succeeded"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// Generation tracks one attempt to produce an image+description pair.
// Exactly one terminal transition (succeeded or failed) happens per row.
type Generation struct {
	ID               int64            `json:"id"`
	LeadID           *int64           `json:"leadId,omitempty"`
	Prompt           string           `json:"prompt"`
	AdditionalPrompt string           `json:"additionalPrompt,omitempty"`
	LogoFilename     string           `json:"logoFilename,omitempty"`
	Status           GenerationStatus `json:"status"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	Description      string           `json:"description,omitempty"`
	FailReason       string           `json:"failReason,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
}
