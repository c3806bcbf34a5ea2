// Package jwtauth resolves bearer tokens into authenticated actors.
// Tokens are HMAC-signed JWTs carrying the user id as subject and the
// marketplace role as a custom claim.
package jwtauth

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed, expired or
// signed with the wrong key.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload: subject identifies the user, Role names the
// marketplace role the credentials grant.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IdentityClient implements ports.IdentityClient with HMAC-signed JWTs.
type IdentityClient struct {
	secret []byte
}

// NewIdentityClient creates an identity client verifying tokens with the
// given signing secret.
func NewIdentityClient(secret string) *IdentityClient {
	return &IdentityClient{secret: []byte(secret)}
}

// Resolve parses and verifies a bearer token and maps its claims to an Actor.
// Expiry is enforced by the parser; a token without a parseable subject or a
// known role is rejected.
func (c *IdentityClient) Resolve(_ context.Context, token string) (ports.Actor, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(_ *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return ports.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ports.Actor{}, ErrInvalidToken
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return ports.Actor{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	role, err := order.RoleFromString(claims.Role)
	if err != nil {
		return ports.Actor{}, fmt.Errorf("%w: %q is not a known role", ErrInvalidToken, claims.Role)
	}

	return ports.Actor{UserID: userID, Role: role}, nil
}

// Issue signs a token for the given actor with the provided lifetime claims.
// Used by tests and local tooling; production tokens come from the identity
// service.
func (c *IdentityClient) Issue(actor ports.Actor, registered jwt.RegisteredClaims) (string, error) {
	registered.Subject = actor.UserID.String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             actor.Role.String(),
		RegisteredClaims: registered,
	})
	return token.SignedString(c.secret)
}
