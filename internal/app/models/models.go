package models

import "time"

// Record is a signup document. The store assigns identity right before insert.
type Record interface {
	AssignIdentity(id string, createdAt time.Time)
	DocumentID() string
	CreatedTime() time.Time
}

// Identity holds the fields every signup record carries
type Identity struct {
	ID        string    `json:"_id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// AssignIdentity sets the id and creation time
func (i *Identity) AssignIdentity(id string, createdAt time.Time) {
	i.ID = id
	i.CreatedAt = createdAt
}

func (i *Identity) DocumentID() string     { return i.ID }
func (i *Identity) CreatedTime() time.Time { return i.CreatedAt }
