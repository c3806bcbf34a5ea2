package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Actor is an authenticated principal acting on an order: who they are and
// the role their credentials grant.
type Actor struct {
	UserID kernel.UUID
	Role   order.Role
}

// IdentityClient resolves bearer credentials into an Actor.
// Implementations return an error for expired, malformed or unsigned
// credentials; authorization decisions stay in the domain.
type IdentityClient interface {
	Resolve(ctx context.Context, token string) (Actor, error)
}
