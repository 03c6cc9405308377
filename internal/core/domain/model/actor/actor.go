// Package actor models the authenticated identity behind every mutation and
// realtime connection. A platform account acts in exactly one role: customer,
// vendor, courier, or administrator.
package actor

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// Role enumerates the platform roles. The zero value is invalid.
type Role int

const (
	roleUnknown Role = iota
	RoleCustomer
	RoleVendor
	RoleCourier
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleCustomer: "customer",
	RoleVendor:   "vendor",
	RoleCourier:  "courier",
	RoleAdmin:    "admin",
}

// ParseRole converts a wire-level role name into a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return roleUnknown, errs.NewValueIsInvalidError("role")
}

// String returns the wire-level name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errs.NewValueIsInvalidError("role")
	}
	return nil
}

// ErrActorIsNotConstructed indicates that an Actor was not created via NewActor.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("Actor must be created via NewActor")

// Actor is a value object pairing an account identifier with its role.
// It is established by the surrounding request layer and passed into every
// use case that needs authorization.
type Actor struct {
	id   kernel.UUID
	role Role

	guard guard.ConstructorGuard
}

// NewActor creates an Actor from a valid identifier and role.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{
		id:    id,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// ID returns the account identifier.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// Validate checks if the Actor was properly constructed.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
