// internal/domain/models/user.go
package models

import "strings"

// Roles recognised by the backend.
const (
	RoleStudent  = "student"
	RoleAcademic = "academic"
	RoleAdmin    = "admin"
)

// User is a snapshot of an account as returned by the backend.
//
// NOTE:
//   - The snapshot is never refreshed in place. Pages re-fetch after a
//     dialog closes.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Role        string   `json:"role"` // student | academic | admin
	School      string   `json:"school"`
	Degree      string   `json:"degree"`
	Phone       string   `json:"phone"`
	Description string   `json:"description"`
	Avatar      Image    `json:"avatar"`
	CoverPhoto  Image    `json:"coverPhoto"`
	Skills      []string `json:"skills,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
