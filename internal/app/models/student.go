package models

import "time"

// Student is a single student signup submission
type Student struct {
	Identity       `bson:",inline"`
	FirstName      string     `json:"firstName" bson:"firstName" example:"Ada"`
	LastName       string     `json:"lastName" bson:"lastName" example:"Lovelace"`
	AdminID        string     `json:"adminID" bson:"adminID"`
	Email          string     `json:"email" bson:"email" example:"ada@example.com"`
	DOB            *time.Time `json:"dob,omitempty" bson:"dob,omitempty"`
	Phone          string     `json:"phone" bson:"phone"`
	Gender         string     `json:"gender" bson:"gender"`
	University     string     `json:"university" bson:"university"`
	Address        string     `json:"address" bson:"address"`
	City           string     `json:"city" bson:"city"`
	ZipCode        string     `json:"zipCode" bson:"zipCode"`
	Country        string     `json:"country" bson:"country"`
	Domain         string     `json:"domain" bson:"domain"`
	Education      string     `json:"education" bson:"education"`
	GraduationYear string     `json:"graduationYear" bson:"graduationYear" example:"1840"`
	Photo          string     `json:"photo" bson:"photo"`
}
