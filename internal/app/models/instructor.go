package models

import "time"

// Instructor is a single instructor signup submission
type Instructor struct {
	Identity       `bson:",inline"`
	FirstName      string     `json:"firstName" bson:"firstName" example:"Alan"`
	LastName       string     `json:"lastName" bson:"lastName" example:"Turing"`
	AdminID        string     `json:"adminID" bson:"adminID"`
	Email          string     `json:"email" bson:"email" example:"alan@example.com"`
	DOB            *time.Time `json:"dob,omitempty" bson:"dob,omitempty"`
	Phone          string     `json:"phone" bson:"phone"`
	Gender         string     `json:"gender" bson:"gender"`
	Specialization string     `json:"specialization" bson:"specialization"`
	Address        string     `json:"address" bson:"address"`
	City           string     `json:"city" bson:"city"`
	PinCode        string     `json:"pinCode" bson:"pinCode"`
	Country        string     `json:"country" bson:"country"`
	Education      string     `json:"education" bson:"education"`
	Experience     string     `json:"experience" bson:"experience"`
	Photo          string     `json:"photo" bson:"photo"` // stored file name, "" when none was uploaded
}
