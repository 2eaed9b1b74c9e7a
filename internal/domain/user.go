package domain

import (
	"encoding/json"
	"fmt"
)

type Role int

const (
	RoleCustomer Role = iota + 1
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleManager:
		return "manager"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps the wire value onto the closed set of roles.
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer":
		return RoleCustomer, nil
	case "manager":
		return RoleManager, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalJSON() ([]byte, error) {
	switch r {
	case RoleCustomer, RoleManager:
		return json.Marshal(r.String())
	}
	return nil, fmt.Errorf("marshal invalid role %d", int(r))
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) UserID() string { return u.ID }

// IsManager uses an exhaustive switch so a new role has to be placed deliberately.
func (u *User) IsManager() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleManager:
		return true
	case RoleCustomer:
		return false
	}
	return false
}

// CustomerUpdate is what the manager may change on a customer record.
type CustomerUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
