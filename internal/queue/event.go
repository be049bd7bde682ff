// Package queue defines message payloads exchanged over the message broker.
package queue

// InquiryCreatedEvent is published when a seeker's inquiry is stored.
// It carries enough for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type InquiryCreatedEvent struct {
	InquiryID     string `json:"inquiry_id"`
	UserID        string `json:"user_id"`
	OwnerID       string `json:"owner_id"`
	PropertyID    string `json:"property_id"`
	PropertyTitle string `json:"property_title"`
	City          string `json:"city"`
	CreatedAt     string `json:"created_at"`
}
