package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Phone struct {
	Number int64  `bson:"number,omitempty" json:"number,omitempty"`
	Code   string `bson:"code,omitempty" json:"code,omitempty"`
}

// UserRequest is an inquiry record, immutable after creation except deletion.
type UserRequest struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserName string             `bson:"userName" json:"userName"`
	Date     time.Time          `bson:"date" json:"date"`
	Email    string             `bson:"email" json:"email"`
	Phone    Phone              `bson:"phone,omitempty" json:"phone,omitempty"`
	Query    string             `bson:"query,omitempty" json:"query,omitempty"`
}

func (r *UserRequest) Validate() error {
	if r.UserName == "" {
		return errors.New("request needs a name")
	}
	if !ValidEmail(r.Email) {
		return errors.New("invalid email")
	}
	return nil
}
