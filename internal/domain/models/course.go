// internal/domain/models/course.go
package models

// Course is a university course offering.
type Course struct {
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Faculty     string   `json:"faculty"`
	Skills      []string `json:"skills,omitempty"`
	Outcomes    []string `json:"outcomes,omitempty"`
}

// CompletedCourse records that the user finished a course in a given year.
type CompletedCourse struct {
	Code  string `json:"code"`
	Title string `json:"title,omitempty"`
	Year  int    `json:"year"`
}
