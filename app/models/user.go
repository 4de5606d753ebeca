package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAvatar is used until the user uploads one.
const DefaultAvatar = "https://via.placeholder.com/150"

// User is the account document. Password carries the bcrypt hash and is
// never serialised out.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	Role              string             `bson:"role" json:"role"`
	Avatar            string             `bson:"avatar" json:"avatar"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	ResetTokenDigest  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetTokenExpires time.Time          `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the slice of a user embedded in order and review responses.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email,omitempty" json:"email,omitempty"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Summary projects the fields safe to embed in other documents' responses.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
