package services

import (
	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/app/repositories"
	"github.com/yigit/signupdesk/internal/pkg/filestorage"
)

type (
	InstructorService = SignupService[models.Instructor, *models.Instructor]
	StudentService    = SignupService[models.Student, *models.Student]
)

// Services holds the service of every signup kind
type Services struct {
	InstructorService InstructorService
	StudentService    StudentService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, storage filestorage.FileStorage) *Services {
	return &Services{
		InstructorService: NewSignupService[models.Instructor](repos.InstructorRepository, storage),
		StudentService:    NewSignupService[models.Student](repos.StudentRepository, storage),
	}
}
