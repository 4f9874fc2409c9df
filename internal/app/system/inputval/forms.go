package inputval

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,strictemail"`
	Password string `form:"password" validate:"required"`
}

// Register is the sign-up form.
type Register struct {
	FirstName string `form:"first_name" validate:"required,max=60"`
	LastName  string `form:"last_name" validate:"required,max=60"`
	Email     string `form:"email" validate:"required,strictemail"`
	Password  string `form:"password" validate:"required,min=8,max=128"`
	Confirm   string `form:"confirm" validate:"required,eqfield=Password"`
}

// Verify is the email verification form.
type Verify struct {
	Code string `form:"code" validate:"required,numeric,len=6"`
}

// Profile covers the free-text profile fields. Avatar and cover URLs are
// checked by probing, not here.
type Profile struct {
	FirstName   string `form:"first_name" validate:"required,max=60"`
	LastName    string `form:"last_name" validate:"required,max=60"`
	School      string `form:"school" validate:"max=120"`
	Degree      string `form:"degree" validate:"max=120"`
	Phone       string `form:"phone" validate:"omitempty,phone"`
	Description string `form:"description" validate:"max=2000"`
}

// Group is the create/edit group form. The group name is checked by the
// backend, which owns the wording of that message.
type Group struct {
	Name        string `form:"name" validate:"max=80"`
	Description string `form:"description" validate:"max=1000"`
	MinMembers  int    `form:"min_members" validate:"gte=1,lte=20"`
	MaxMembers  int    `form:"max_members" validate:"gte=1,lte=20,gtefield=MinMembers"`
}

// Project is the create/edit project form.
type Project struct {
	Title        string `form:"title" validate:"required,max=120"`
	Description  string `form:"description" validate:"max=4000"`
	MinGroupSize int    `form:"min_group_size" validate:"gte=1,lte=20"`
	MaxGroupSize int    `form:"max_group_size" validate:"gte=1,lte=20,gtefield=MinGroupSize"`
}

// CourseSelection is one entry of the Add Course dialog.
type CourseSelection struct {
	Code string `form:"code" validate:"required,coursecode"`
	Year int    `form:"year" validate:"gte=1950,lte=2100"`
}

// AddCourses is the Add Course dialog.
type AddCourses struct {
	Courses []CourseSelection `form:"courses" validate:"required,min=1,dive"`
}

// Listing is a value added to a project topic/skill/outcome list.
type Listing struct {
	Value string `form:"value" validate:"required,max=80"`
}
