// internal/domain/models/recommendation.go
package models

// SkillGap is a skill a project needs that the user lacks, along with
// the courses that teach it.
type SkillGap struct {
	Skill   string   `json:"skill"`
	Courses []Course `json:"courses"`
}
