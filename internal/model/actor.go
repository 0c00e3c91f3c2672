package model

// Role is the capacity in which an actor calls the API.
type Role string

const (
	RoleUploader Role = "uploader"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
