package repositories

import (
	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/db"
)

type (
	InstructorRepository = SignupRepository[models.Instructor, *models.Instructor]
	StudentRepository    = SignupRepository[models.Student, *models.Student]
)

// Repositories holds all the repository instances
type Repositories struct {
	InstructorRepository *InstructorRepository
	StudentRepository    *StudentRepository
}

// NewRepositories initializes all repositories on the shared store
func NewRepositories(store db.DocumentStore, instructors, students db.Namespace) *Repositories {
	return &Repositories{
		InstructorRepository: NewSignupRepository[models.Instructor](store, instructors),
		StudentRepository:    NewSignupRepository[models.Student](store, students),
	}
}
