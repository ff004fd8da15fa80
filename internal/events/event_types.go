package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventBusinessCreated EventType = "business_created"
	EventBusinessUpdated EventType = "business_updated"
	EventProductCreated  EventType = "product_created"
	EventProductUpdated  EventType = "product_updated"
	EventProductDeleted  EventType = "product_deleted"
	EventReviewSubmitted EventType = "review_submitted"
)

// Event represents a directory change emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	BusinessID string      `json:"business_id,omitempty"`
	SubjectID  string      `json:"subject_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// BusinessCreatedPayload payload.
type BusinessCreatedPayload struct {
	Name       string `json:"name"`
	OwnerEmail string `json:"owner_email"`
	Category   string `json:"category"`
	City       string `json:"city"`
}

// ProductChangedPayload payload for product create/update/delete.
type ProductChangedPayload struct {
	Name string `json:"name,omitempty"`
}

// ReviewSubmittedPayload payload.
type ReviewSubmittedPayload struct {
	Rating       int    `json:"rating"`
	ReviewerName string `json:"reviewer_name"`
}
