package controllers

import "github.com/yigit/signupdesk/internal/app/models"

type (
	InstructorController = SignupController[models.Instructor, *models.Instructor]
	StudentController    = SignupController[models.Student, *models.Student]
)
