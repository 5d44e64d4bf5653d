package models

import "github.com/yigit/signupdesk/internal/config"

// Role describes the routes and messages of one signup kind
type Role struct {
	Name       string
	SignupPath string
	ListPath   string

	SignupSuccess string
	SignupFailure string
	ListFailure   string
}

var (
	InstructorRole = Role{
		Name:          config.RoleInstructor,
		SignupPath:    "/ins_signup",
		ListPath:      "/instructors",
		SignupSuccess: "Instructor registered successfully!",
		SignupFailure: "Error registering instructor",
		ListFailure:   "Error fetching instructors",
	}

	StudentRole = Role{
		Name:          config.RoleStudent,
		SignupPath:    "/std_signup",
		ListPath:      "/students",
		SignupSuccess: "Student registered successfully!",
		SignupFailure: "Error registering student",
		ListFailure:   "Error fetching students",
	}
)
