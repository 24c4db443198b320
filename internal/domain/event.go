package domain

import "time"

// TrackEvent is an append-only analytics event emitted by the marketing pages.
type TrackEvent struct {
	ID        int64          `json:"id"`
	Event     string         `json:"event"`
	Variant   string         `json:"variant,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	IP        string         `json:"-"`
	Country   string         `json:"country,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
