package models

// DefaultSiteName is shown in page titles and the header.
const DefaultSiteName = "SkillMatch"
