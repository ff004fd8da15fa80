package domain

import "time"

// BusinessStatus represents the moderation state of a listing.
type BusinessStatus string

const (
	BusinessStatusPending  BusinessStatus = "pending"
	BusinessStatusApproved BusinessStatus = "approved"
	BusinessStatusRejected BusinessStatus = "rejected"
)

// Police clearance markers. Only the presence of an uploaded document is recorded.
const (
	ClearanceUploaded = "Doc Uploaded"
	ClearanceMissing  = "No Doc"
)

// Business is a directory listing owned by a User (linked by email).
type Business struct {
	ID              string
	Name            string
	Category        string
	Description     string
	City            string
	Province        string
	Phone           string
	Email           string
	Website         string
	Logo            *string
	PoliceClearance string
	OwnerEmail      string
	Status          BusinessStatus
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// ClearanceFor derives the police clearance marker from whether a document was supplied.
func ClearanceFor(uploaded bool) string {
	if uploaded {
		return ClearanceUploaded
	}
	return ClearanceMissing
}
