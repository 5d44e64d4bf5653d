package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/pkg/apperrors"
)

// Accepted dob layouts
var dobLayouts = []string{"2006-01-02", time.RFC3339}

// Text is a form value. In JSON bodies it also accepts numbers and booleans,
// stored as written ("graduationYear": 1840 becomes "1840").
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = Text(data)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cannot use %s as text", data)
	}
	*t = Text(n)
	return nil
}

// RecordConverter turns a bound request into the record it describes
type RecordConverter[R any] interface {
	ToRecord(photo string) (*R, error)
}

// InstructorSignupRequest is the instructor form. The snake_case fields are the
// names older clients send; the camelCase value wins when both are present.
type InstructorSignupRequest struct {
	FirstName      Text `json:"firstName" form:"firstName"`
	LastName       Text `json:"lastName" form:"lastName"`
	AdminID        Text `json:"adminID" form:"adminID"`
	Email          Text `json:"email" form:"email"`
	DOB            Text `json:"dob" form:"dob" example:"1912-06-23"`
	Phone          Text `json:"phone" form:"phone"`
	Gender         Text `json:"gender" form:"gender"`
	Specialization Text `json:"specialization" form:"specialization"`
	Address        Text `json:"address" form:"address"`
	City           Text `json:"city" form:"city"`
	PinCode        Text `json:"pinCode" form:"pinCode"`
	Country        Text `json:"country" form:"country"`
	Education      Text `json:"education" form:"education"`
	Experience     Text `json:"experience" form:"experience"`

	LegacyFirstName Text `json:"first_name" form:"first_name"`
	LegacyLastName  Text `json:"last_name" form:"last_name"`
	LegacyAdminID   Text `json:"admin_id" form:"admin_id"`
	LegacyPinCode   Text `json:"pin_code" form:"pin_code"`
}

// ToRecord builds the Instructor record
func (r InstructorSignupRequest) ToRecord(photo string) (*models.Instructor, error) {
	dob, err := ParseDOB(string(r.DOB))
	if err != nil {
		return nil, err
	}

	return &models.Instructor{
		FirstName:      coalesce(string(r.FirstName), string(r.LegacyFirstName)),
		LastName:       coalesce(string(r.LastName), string(r.LegacyLastName)),
		AdminID:        coalesce(string(r.AdminID), string(r.LegacyAdminID)),
		Email:          string(r.Email),
		DOB:            dob,
		Phone:          string(r.Phone),
		Gender:         string(r.Gender),
		Specialization: string(r.Specialization),
		Address:        string(r.Address),
		City:           string(r.City),
		PinCode:        coalesce(string(r.PinCode), string(r.LegacyPinCode)),
		Country:        string(r.Country),
		Education:      string(r.Education),
		Experience:     string(r.Experience),
		Photo:          photo,
	}, nil
}

// StudentSignupRequest is the student form
type StudentSignupRequest struct {
	FirstName      Text `json:"firstName" form:"firstName"`
	LastName       Text `json:"lastName" form:"lastName"`
	AdminID        Text `json:"adminID" form:"adminID"`
	Email          Text `json:"email" form:"email"`
	DOB            Text `json:"dob" form:"dob" example:"1815-12-10"`
	Phone          Text `json:"phone" form:"phone"`
	Gender         Text `json:"gender" form:"gender"`
	University     Text `json:"university" form:"university"`
	Address        Text `json:"address" form:"address"`
	City           Text `json:"city" form:"city"`
	ZipCode        Text `json:"zipCode" form:"zipCode"`
	Country        Text `json:"country" form:"country"`
	Domain         Text `json:"domain" form:"domain"`
	Education      Text `json:"education" form:"education"`
	GraduationYear Text `json:"graduationYear" form:"graduationYear"`
}

// ToRecord builds the Student record
func (r StudentSignupRequest) ToRecord(photo string) (*models.Student, error) {
	dob, err := ParseDOB(string(r.DOB))
	if err != nil {
		return nil, err
	}

	return &models.Student{
		FirstName:      string(r.FirstName),
		LastName:       string(r.LastName),
		AdminID:        string(r.AdminID),
		Email:          string(r.Email),
		DOB:            dob,
		Phone:          string(r.Phone),
		Gender:         string(r.Gender),
		University:     string(r.University),
		Address:        string(r.Address),
		City:           string(r.City),
		ZipCode:        string(r.ZipCode),
		Country:        string(r.Country),
		Domain:         string(r.Domain),
		Education:      string(r.Education),
		GraduationYear: string(r.GraduationYear),
		Photo:          photo,
	}, nil
}

// ParseDOB coerces a date of birth. Empty input means no date.
func ParseDOB(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError("dob", "dob must be a date (YYYY-MM-DD)")
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
