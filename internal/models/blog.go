package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogMetadata struct {
	DatePosted  time.Time `bson:"datePosted" json:"datePosted"`
	DateUpdated time.Time `bson:"dateUpdated" json:"dateUpdated"`
	Likes       int64     `bson:"likes" json:"likes"`
	Views       int64     `bson:"views" json:"views"`
}

// Blog is a post record; Active gates drafts from published output.
type Blog struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	CoverImg string             `bson:"coverImg,omitempty" json:"coverImg,omitempty"`
	Content  string             `bson:"content,omitempty" json:"content,omitempty"`
	Metadata BlogMetadata       `bson:"metadata" json:"metadata"`
	Active   bool               `bson:"active" json:"active"`
	Tags     []string           `bson:"tags,omitempty" json:"tags,omitempty"`
}

func (b *Blog) Validate() error {
	if b.Name == "" {
		return errors.New("blog needs a name")
	}
	return nil
}
