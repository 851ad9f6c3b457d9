// Package auth resolves a bearer credential to a verified email.
package auth

import (
	"context"
	"fmt"
	"strings"

	"bloodaid/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Verifier validates a credential against the identity provider and
// resolves it to the verified email.
type Verifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}

// KeySetProvider is satisfied by *jwk.Cache.
type KeySetProvider interface {
	Lookup(ctx context.Context, url string) (jwk.Set, error)
}

// JWKSVerifier verifies signed JWTs against the identity provider's
// published key set.
type JWKSVerifier struct {
	keys    KeySetProvider
	jwksURL string
}

func NewJWKSVerifier(keys KeySetProvider, jwksURL string) *JWKSVerifier {
	return &JWKSVerifier{keys: keys, jwksURL: jwksURL}
}

func (v *JWKSVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", types.ErrUnauthorized
	}

	set, err := v.keys.Lookup(ctx, v.jwksURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(credential),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", types.ErrUnauthorized
	}

	var email string
	if err := token.Get("email", &email); err != nil || strings.TrimSpace(email) == "" {
		return "", types.ErrUnauthorized
	}

	return strings.ToLower(strings.TrimSpace(email)), nil
}
