// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a club member or administrator.
//
// Email is stored lowercase. Password holds the bcrypt hash and is never
// serialized to JSON; admin queries also project it out.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	RegistrationNo string             `bson:"registration_no" json:"registration_no"`

	Password string `bson:"password,omitempty" json:"-"` // bcrypt hash (never in JSON)

	Role string `bson:"role" json:"role"` // user, admin, superadmin

	// Profile fields
	Branch   string `bson:"branch,omitempty" json:"branch,omitempty"`
	Semester string `bson:"semester,omitempty" json:"semester,omitempty"`
	Mobile   string `bson:"mobile,omitempty" json:"mobile,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User roles
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{
		RoleUser,
		RoleAdmin,
		RoleSuperAdmin,
	}
}

// AdminRoles returns the roles allowed through the admin API.
func AdminRoles() []string {
	return []string{RoleAdmin, RoleSuperAdmin}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// RegistrantProfile is the whitelisted view of a user embedded in event
// registration listings.
type RegistrantProfile struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	RegistrationNo string             `bson:"registration_no" json:"registration_no"`
	Branch         string             `bson:"branch" json:"branch"`
	Semester       string             `bson:"semester" json:"semester"`
	Mobile         string             `bson:"mobile" json:"mobile"`
	Role           string             `bson:"role" json:"role"`
}

// RegistrantFields is the projection matching RegistrantProfile.
func RegistrantFields() []string {
	return []string{"name", "email", "registration_no", "branch", "semester", "mobile", "role"}
}
