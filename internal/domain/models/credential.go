// internal/domain/models/credential.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognised by the authorization middleware. Registration always
// assigns RoleUser; the other roles are granted out of band.
const (
	RoleUser      = "User"
	RoleAdmin     = "Admin"
	RoleVolunteer = "Volunteer"
)

// UserCredential is a sign-in account.
//
// Username is unique (uniq_credentials_username). PasswordHash holds either
// a legacy SHA-256/base64 digest or a bcrypt hash, depending on when the
// account last signed in under which scheme.
type UserCredential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // folded, for sorting only
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
