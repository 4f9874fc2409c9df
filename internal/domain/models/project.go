// internal/domain/models/project.go
package models

// Project is a piece of work offered to groups by an academic.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	OwnerID      string   `json:"ownerId"`
	MinGroupSize int      `json:"minGroupSize"`
	MaxGroupSize int      `json:"maxGroupSize"`
	Topics       []string `json:"topics"`
	Skills       []string `json:"skills"`
	Outcomes     []string `json:"outcomes"`
}
