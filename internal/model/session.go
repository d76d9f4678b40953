package model

import "strings"

// Role is the access level of an account.
type Role string

// Account roles.
const (
	RoleAdmin     Role = "ADMIN"
	RoleDoctor    Role = "DOCTOR"
	RoleModerator Role = "MODERATOR"
	RoleUser      Role = "USER"
)

// Roles lists every role in the order forms present them.
var Roles = []Role{RoleUser, RoleDoctor, RoleModerator, RoleAdmin}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Session is the identity snapshot from the remote session check. It lives only as
// long as the current page and is never persisted.
type Session struct {
	UserID    string `json:"userId"`
	Firstname string `json:"firstname"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Initial returns the upper-cased first letter of the user's first name.
func (s Session) Initial() string {
	name := strings.TrimSpace(s.Firstname)
	if name == "" {
		name = strings.TrimSpace(s.Email)
	}
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}
