package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true}, // single-label domains are allowed

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},

		// Invalid emails - bad format
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},

		// Display name format is rejected
		{"User Name <user@example.com>", false},

		{"user @example.com", false},
		{"user@ example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestStruct_ValidLogin(t *testing.T) {
	if errs := Struct(Login{Email: "a@uni.edu", Password: "pw"}); errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestStruct_KeysByFormName(t *testing.T) {
	errs := Struct(Login{Email: "", Password: ""})
	if !errs.Has("email") || !errs.Has("password") {
		t.Fatalf("errors = %v, want email and password", errs)
	}
	if errs["email"] != "Email is required" {
		t.Errorf("email message = %q", errs["email"])
	}
}

func TestStruct_Phone(t *testing.T) {
	p := Profile{FirstName: "Alex", LastName: "Kim", Phone: "call me maybe"}
	errs := Struct(p)
	if errs["phone"] != "Invalid phone number" {
		t.Errorf("phone message = %q (%v)", errs["phone"], errs)
	}

	p.Phone = "+61 (2) 9999-0000"
	if errs := Struct(p); errs != nil {
		t.Errorf("valid phone rejected: %v", errs)
	}

	p.Phone = ""
	if errs := Struct(p); errs != nil {
		t.Errorf("empty phone rejected: %v", errs)
	}
}

func TestStruct_GroupSizeRange(t *testing.T) {
	errs := Struct(Group{Name: "Team", MinMembers: 4, MaxMembers: 2})
	if !errs.Has("max_members") {
		t.Fatalf("errors = %v, want max_members", errs)
	}
	if !strings.Contains(errs["max_members"], "minimum") {
		t.Errorf("message = %q", errs["max_members"])
	}
	if errs := Struct(Group{Name: "", MinMembers: 2, MaxMembers: 4}); errs != nil {
		t.Errorf("blank name should be left to the backend: %v", errs)
	}
}

func TestStruct_Register(t *testing.T) {
	errs := Struct(Register{
		FirstName: "Sam", LastName: "Lee", Email: "sam@uni.edu",
		Password: "longenough", Confirm: "different",
	})
	if !errs.Has("confirm") {
		t.Errorf("errors = %v, want confirm", errs)
	}
}

func TestStruct_AddCourses(t *testing.T) {
	ok := AddCourses{Courses: []CourseSelection{{Code: "COMP1511", Year: 2023}, {Code: "MATH1131", Year: 2023}}}
	if errs := Struct(ok); errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}

	if errs := Struct(AddCourses{}); !errs.Has("courses") {
		t.Errorf("empty selection accepted: %v", errs)
	}

	bad := AddCourses{Courses: []CourseSelection{{Code: "not a code", Year: 1800}}}
	errs := Struct(bad)
	if errs["code"] != "Invalid course code" || !errs.Has("year") {
		t.Errorf("errors = %v", errs)
	}
}

func TestErrors_First(t *testing.T) {
	e := Errors{"b": "second", "a": "first"}
	if got := e.First("a", "b"); got != "first" {
		t.Errorf("First = %q", got)
	}
	var none Errors
	if none.First() != "" {
		t.Error("nil Errors should yield empty message")
	}
}

func TestVerifyCode(t *testing.T) {
	if errs := Struct(Verify{Code: "123456"}); errs != nil {
		t.Errorf("valid code rejected: %v", errs)
	}
	if errs := Struct(Verify{Code: "12ab"}); !errs.Has("code") {
		t.Errorf("bad code accepted")
	}
}
