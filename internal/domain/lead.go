package domain

import "time"

// Lead is a contact record keyed by email. A lead is created the first time a
// generation request carries that email and is never deleted by this service.
type Lead struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
