package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"bloodaid/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

type staticKeySet struct {
	set jwk.Set
	err error
}

func (s *staticKeySet) Lookup(context.Context, string) (jwk.Set, error) {
	return s.set, s.err
}

func testKeys(t *testing.T) (jwk.Key, jwk.Set) {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		t.Fatalf("import private key: %v", err)
	}
	if err := key.Set(jwk.KeyIDKey, "test-key"); err != nil {
		t.Fatalf("set kid: %v", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256()); err != nil {
		t.Fatalf("set alg: %v", err)
	}

	pub, err := jwk.PublicKeyOf(key)
	if err != nil {
		t.Fatalf("derive public key: %v", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(pub); err != nil {
		t.Fatalf("add key to set: %v", err)
	}

	return key, set
}

func signToken(t *testing.T, key jwk.Key, email string, expires time.Time) string {
	t.Helper()

	builder := jwt.NewBuilder().
		Subject("user-1").
		IssuedAt(time.Now()).
		Expiration(expires)
	if email != "" {
		builder = builder.Claim("email", email)
	}

	token, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256(), key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return string(signed)
}

func TestVerify_ResolvesEmail(t *testing.T) {
	key, set := testKeys(t)
	verifier := NewJWKSVerifier(&staticKeySet{set: set}, "https://issuer/.well-known/jwks.json")

	credential := signToken(t, key, "Donor@X.com", time.Now().Add(time.Hour))

	email, err := verifier.Verify(context.Background(), credential)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "donor@x.com" {
		t.Fatalf("email = %q, want %q", email, "donor@x.com")
	}
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	key, set := testKeys(t)
	verifier := NewJWKSVerifier(&staticKeySet{set: set}, "https://issuer/.well-known/jwks.json")

	credential := signToken(t, key, "donor@x.com", time.Now().Add(-time.Hour))

	if _, err := verifier.Verify(context.Background(), credential); !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expired token: got %v, want ErrUnauthorized", err)
	}
}

func TestVerify_RejectsMissingEmailClaim(t *testing.T) {
	key, set := testKeys(t)
	verifier := NewJWKSVerifier(&staticKeySet{set: set}, "https://issuer/.well-known/jwks.json")

	credential := signToken(t, key, "", time.Now().Add(time.Hour))

	if _, err := verifier.Verify(context.Background(), credential); !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("missing email claim: got %v, want ErrUnauthorized", err)
	}
}

func TestVerify_RejectsEmptyAndGarbageCredentials(t *testing.T) {
	_, set := testKeys(t)
	verifier := NewJWKSVerifier(&staticKeySet{set: set}, "https://issuer/.well-known/jwks.json")

	if _, err := verifier.Verify(context.Background(), ""); !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("empty credential: got %v, want ErrUnauthorized", err)
	}

	if _, err := verifier.Verify(context.Background(), "not-a-jwt"); !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("garbage credential: got %v, want ErrUnauthorized", err)
	}
}

func TestVerify_RejectsTokenSignedByUnknownKey(t *testing.T) {
	_, set := testKeys(t)
	otherKey, _ := testKeys(t)

	verifier := NewJWKSVerifier(&staticKeySet{set: set}, "https://issuer/.well-known/jwks.json")
	credential := signToken(t, otherKey, "donor@x.com", time.Now().Add(time.Hour))

	if _, err := verifier.Verify(context.Background(), credential); !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("unknown signer: got %v, want ErrUnauthorized", err)
	}
}
