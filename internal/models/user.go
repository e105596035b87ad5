package models

import (
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleEditor  UserRole = "editor"
	UserRoleAuthor  UserRole = "author"
	UserRoleSupport UserRole = "support"
	UserRoleViewer  UserRole = "viewer"
)

var validRoles = map[UserRole]struct{}{
	UserRoleAdmin:   {},
	UserRoleEditor:  {},
	UserRoleAuthor:  {},
	UserRoleSupport: {},
	UserRoleViewer:  {},
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is the identity record. Password and the reset fields are never
// serialized in responses.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Photo                string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role                 UserRole           `bson:"role" json:"role"`
	Password             string             `bson:"password" json:"-"`
	Active               bool               `bson:"active" json:"-"`
	PasswordChangedAt    *time.Time         `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time         `bson:"passwordResetExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("user name missing")
	}
	if !ValidEmail(u.Email) {
		return errors.New("invalid email")
	}
	if _, ok := validRoles[u.Role]; !ok {
		return errors.New("invalid role")
	}
	return nil
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Token claims carry whole-second timestamps, so the
// comparison is at second precision: a token minted in the same second as
// the change stays valid, anything older is rejected.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
