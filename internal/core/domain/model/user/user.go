// Package user models the accounts that place and settle orders. Users are
// owned by another part of the marketplace; this module only reads them.
package user

import (
	"errors"
	"fmt"
	"strings"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/pkg/errs"
)

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

// Role drives the static permission lookup: admins may act on any order.
type Role int

const (
	UnknownRole Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

func (r Role) Validate() error {
	if r != RoleUser && r != RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ParseRole maps an empty string to RoleUser.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "USER":
		return RoleUser, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not supported", s))
	}
}

type User struct {
	id    kernel.UUID
	name  string
	email string
	role  Role

	isConstructed bool
}

func NewUser(id kernel.UUID, name, email string, role Role) (*User, error) {
	u := &User{isConstructed: true}

	if err := errors.Join(
		id.Validate(),
		role.Validate(),
		requireText("name", name),
	); err != nil {
		return nil, err
	}

	u.id = id
	u.name = name
	u.email = email
	u.role = role
	return u, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID { return u.id }
func (u *User) Name() string    { return u.name }
func (u *User) Email() string   { return u.email }
func (u *User) Role() Role      { return u.role }

// Caller returns the identity this user acts with.
func (u *User) Caller() Caller {
	return Caller{ID: u.id, Role: u.role}
}

// Caller is the identity performing a request.
type Caller struct {
	ID   kernel.UUID
	Role Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccess reports whether the caller owns the resource or is an admin.
func (c Caller) CanAccess(ownerID kernel.UUID) bool {
	return c.IsAdmin() || c.ID.IsEqual(ownerID)
}

func requireText(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
