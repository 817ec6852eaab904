// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth methods a profile can carry.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// ProfileImageMaxBytes caps the inline-encoded profile image (5 MiB of
// source image, before base64 expansion).
const ProfileImageMaxBytes = 5 * 1024 * 1024

// PlaceholderUsername is shown when a profile lookup fails or the
// profile is missing. Display degradation only; never persisted.
const PlaceholderUsername = "User"

// Profile is the per-identity record created at signup. Its _id doubles
// as the identity id everywhere else (host_id, user_id, participants).
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Email      string             `bson:"email" json:"email"`

	// ProfileImage is an inline data URL (data:image/...;base64,...).
	ProfileImage string `bson:"profile_image,omitempty" json:"profile_image,omitempty"`

	AuthMethod   string `bson:"auth_method" json:"-"`
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName prefers the full name, then the username, then the
// placeholder.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return PlaceholderUsername
}
