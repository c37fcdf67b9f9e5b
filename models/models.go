package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoleAdmin is the only role value the service gives meaning to.
const RoleAdmin = "admin"

// Entry is a photo submitted by a user to a contest.
type Entry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ContestID    string             `bson:"contestId" json:"contestId"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	ContestImage string             `bson:"contestImage" json:"contestImage"`
	Vote         []string           `bson:"vote" json:"vote"`
}

// NewEntry returns an entry with an empty vote list.
func NewEntry(contestID, email, imageURL string) *Entry {
	return &Entry{
		ContestID:    contestID,
		UserEmail:    email,
		ContestImage: imageURL,
		Vote:         []string{},
	}
}
