package rbac

import "accredapi/internal/model"

// Action is something an actor may be allowed to do.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpload Action = "upload"
	ActionReview Action = "review"
	ActionDelete Action = "delete"
)

// Can reports whether role may perform action at all.
// Ownership checks (an uploader deleting only their own documents) happen in the service.
func Can(role model.Role, action Action) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleReviewer:
		return action == ActionRead || action == ActionReview
	case model.RoleUploader:
		return action == ActionRead || action == ActionUpload || action == ActionDelete
	default:
		return false
	}
}

// Normalize maps unknown role names to the least privileged role.
func Normalize(role string) model.Role {
	switch model.Role(role) {
	case model.RoleUploader, model.RoleReviewer, model.RoleAdmin:
		return model.Role(role)
	default:
		return model.RoleUploader
	}
}
