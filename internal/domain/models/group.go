// internal/domain/models/group.go
package models

import "slices"

// Group is a student team that can take on a project.
//
// NOTE:
//   - Membership is embedded as a list of user ids. Whether the current
//     user belongs to a group is derived by scanning Members.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	OwnerID     string   `json:"ownerId"`
	Members     []string `json:"members"`
	MinMembers  int      `json:"minMembers"`
	MaxMembers  int      `json:"maxMembers"`
}

// HasMember reports whether uid is listed in Members.
func (g Group) HasMember(uid string) bool {
	return slices.Contains(g.Members, uid)
}

// IsFull reports whether the group reached its maximum size.
func (g Group) IsFull() bool {
	return g.MaxMembers > 0 && len(g.Members) >= g.MaxMembers
}

// GroupInvite is an outstanding invitation for the current user.
type GroupInvite struct {
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName,omitempty"`
	FromID    string `json:"fromId"`
}

// JoinRequest is a pending request by the current user to join a group.
type JoinRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}
