package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles. Raw values are validated at the
// boundary so handlers can branch over roles exhaustively.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role value against the closed enumeration.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleBuyer, RoleManager, RoleAdmin:
		return Role(value), nil
	default:
		return "", fmt.Errorf("invalid role: %q", value)
	}
}

// Account statuses. New registrations start as pending until an admin
// activates them; social sign-ins are provisioned active.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// SuspendInfo records why an account was suspended.
type SuspendInfo struct {
	IsSuspended bool   `bson:"isSuspended" json:"isSuspended"`
	Reason      string `bson:"reason,omitempty" json:"reason,omitempty"`
	Feedback    string `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// User mirrors an identity-provider account. The uid comes from the provider;
// role and status are mutated only by admin action.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UID       string             `bson:"uid" json:"uid"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role      Role               `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"`
	Suspend   SuspendInfo        `bson:"suspend" json:"suspend"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
