package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role is the privilege level of a user. Each value carries its display
// label and style token, so there is no fallback rendering for unknown roles.
type Role struct {
	slug  string
	label string
	style string
}

var (
	RoleUser      = Role{slug: "user", label: "Üye", style: "badge-ghost"}
	RoleModerator = Role{slug: "moderator", label: "Moderatör", style: "badge-secondary"}
	RoleAdmin     = Role{slug: "admin", label: "Admin", style: "badge-primary"}
)

var roles = []Role{RoleUser, RoleModerator, RoleAdmin}

// Roles lists every known role from least to most privileged.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParseRole resolves a stored role slug.
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if r.slug == s {
			return r, nil
		}
	}
	return Role{}, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return r.slug }
func (r Role) Label() string  { return r.label }
func (r Role) Style() string  { return r.style }

// IsZero reports whether r is the unset role.
func (r Role) IsZero() bool { return r.slug == "" }

// CanModerate reports whether the role may edit directory entries it does not own.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// MarshalJSON writes the slug; the unset role is written as user, like Value.
func (r Role) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return json.Marshal(RoleUser.slug)
	}
	return json.Marshal(r.slug)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan implements sql.Scanner.
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*r = RoleUser
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if r.IsZero() {
		return RoleUser.slug, nil
	}
	return r.slug, nil
}
