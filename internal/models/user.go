package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleWaiter   Role = "waiter"
	RoleCashier  Role = "cashier"
	RoleCook     Role = "cook"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWaiter, RoleCashier, RoleCook, RoleCustomer:
		return true
	}
	return false
}

// Staff reports whether the role belongs to restaurant personnel; creating
// staff accounts requires an administrator.
func (r Role) Staff() bool { return r != RoleCustomer && r.Valid() }

// UserProfile is the identity record behind a bearer credential.
type UserProfile struct {
	Meta
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Role             Role       `json:"role"`
	Phone            string     `json:"phone,omitempty"`
	Avatar           string     `json:"avatar,omitempty"`
	Active           bool       `json:"active"`
	DeactivationNote string     `json:"deactivationNote,omitempty"`
	DeactivatedAt    *time.Time `json:"deactivatedAt,omitempty"`
	DeactivatedBy    string     `json:"deactivatedBy,omitempty"`
	ReactivatedAt    *time.Time `json:"reactivatedAt,omitempty"`
	ReactivatedBy    string     `json:"reactivatedBy,omitempty"`
}
