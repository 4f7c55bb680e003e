package model

import "strings"

// Credentials identifies a warehouse user session.
type Credentials struct {
	Username string
	Password string
	Account  string
	Role     string
}

// Missing returns the names of empty credential fields.
func (c Credentials) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(c.Account) == "" {
		missing = append(missing, "account")
	}
	if strings.TrimSpace(c.Role) == "" {
		missing = append(missing, "role")
	}
	return missing
}
