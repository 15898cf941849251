package identity

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrPrincipalIsNotConstructed = errors.New("Principal must be created via NewPrincipal constructor")

// Principal is the acting user of one call, as asserted by the authentication provider.
// It is passed explicitly into every operation.
type Principal struct {
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewPrincipal(id kernel.UUID, role Role) (Principal, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Principal{}, err
	}
	return Principal{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (p Principal) Validate() error {
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}

func (p Principal) ID() kernel.UUID {
	return p.id
}

func (p Principal) Role() Role {
	return p.role
}
