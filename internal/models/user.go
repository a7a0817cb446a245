package models

import "github.com/google/uuid"

const (
	StudentRole    = "student"
	InstructorRole = "instructor"
	AdminRole      = "admin"
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
}

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(AdminRole)
}

// Acts reports whether the caller may act on behalf of userID.
func (i Identity) Acts(userID uuid.UUID) bool {
	return i.UserID != uuid.Nil && (i.UserID == userID || i.IsAdmin())
}
