package models

import "time"

// Resource is an owned record of a lesson (a booking, a grade, a candidate, an account ...)
type Resource struct {
	ID        int               `json:"id"`
	Lesson    string            `json:"lesson"`
	Kind      string            `json:"kind"`
	OwnerID   int               `json:"ownerId"`
	Title     string            `json:"title"`
	Details   map[string]string `json:"details,omitempty"`
	IsPublic  bool              `json:"isPublic"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Attachment is a stored file that belongs to a resource (a resume, a submission, a statement ...)
type Attachment struct {
	ID         int       `json:"id"`
	ResourceID int       `json:"resourceId"`
	OwnerID    int       `json:"ownerId"`
	StorageKey string    `json:"path"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UpdateResourceRequest is the body of the update endpoints.
// OwnerID is a client supplied ownership claim and is only read by handlers that trust it.
type UpdateResourceRequest struct {
	Title   string `json:"title"`
	OwnerID *int   `json:"owner_id,omitempty"`
}

// RecordView is a portal record with its attachments
type RecordView struct {
	Resource    *Resource     `json:"record"`
	Attachments []*Attachment `json:"documents"`
}

// ShareLink is a generated download link for a document
type ShareLink struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expiresIn"`
}
