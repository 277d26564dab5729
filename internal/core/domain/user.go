package domain

import (
	"errors"
	"time"
)

// Role is a closed set of authorities a user may hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ParseRole maps a label to a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// RoleSet is an ordered, duplicate-free list of roles.
type RoleSet []Role

// DefaultRoles is assigned on self-registration.
func DefaultRoles() RoleSet { return RoleSet{RoleUser} }

// AdminRoles is assigned when an administrator creates another administrator.
func AdminRoles() RoleSet { return RoleSet{RoleUser, RoleAdmin} }

// Has reports whether r is a member of the set.
func (rs RoleSet) Has(r Role) bool {
	for _, have := range rs {
		if have == r {
			return true
		}
	}
	return false
}

// Strings returns the role labels, e.g. for JWT claims.
func (rs RoleSet) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// ParseRoleSet keeps the known labels and drops the rest. An empty result
// falls back to DefaultRoles so a user never ends up without authorities.
func ParseRoleSet(labels []string) RoleSet {
	var rs RoleSet
	for _, l := range labels {
		if r, ok := ParseRole(l); ok && !rs.Has(r) {
			rs = append(rs, r)
		}
	}
	if len(rs) == 0 {
		return DefaultRoles()
	}
	return rs
}

// User models an account and the journal entries it owns.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        RoleSet   `json:"roles"`
	EntryIDs     []string  `json:"entry_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnsEntry reports whether entryID is in the user's reference set.
func (u *User) OwnsEntry(entryID string) bool {
	for _, id := range u.EntryIDs {
		if id == entryID {
			return true
		}
	}
	return false
}

// ProfilePatch carries the optional fields of a profile update.
type ProfilePatch struct {
	Username *string
	Password *string
	Email    *string
}

// Principal is the authenticated identity resolved from a request credential.
type Principal struct {
	Username string
	Roles    RoleSet
}
