package domain

import (
	"context"
	"fmt"
	"time"
)

// Role distinguishes administrators from regular participants. It is a
// closed enum so a typo in a stored value fails loudly at parse time
// instead of silently creating a third role.
type Role int

const (
	RoleRegular Role = iota
	RoleAdmin
)

// String returns the stored/wire form of the role.
func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "user"
}

// ParseRole converts a stored/wire role value back into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleRegular, nil
	}
	return RoleRegular, fmt.Errorf("unknown role %q", s)
}

// User represents a registered account. Email is stored lowercase and is
// unique case-insensitively. PasswordHash never leaves the auth layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Caller is the authenticated identity derived from a verified bearer
// token. It is reconstructed per request; no server-side session exists.
type Caller struct {
	UserID int64
	Email  string
	Role   Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanAccess reports whether the caller may act on a resource owned by
// ownerID. Admins may act on anything; regular callers only on their own.
func (c Caller) CanAccess(ownerID int64) bool {
	return c.IsAdmin() || c.UserID == ownerID
}

// UserUpdate carries the mutable fields of an admin-driven user update.
// Nil pointers leave the current value in place.
type UserUpdate struct {
	Name         *string
	Phone        *string
	Role         *Role
	PasswordHash *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, update UserUpdate) error
}
