// Package identity turns identity-provider session tokens into callers.
// Tokens are HS256 JWTs carrying the provider's user id in "sub" plus the
// user's email addresses; this service never issues them in production.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid identity token")

// EmailAddress is one address attached to an identity.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// User is the authenticated caller as asserted by the identity provider.
type User struct {
	ID                    string
	PrimaryEmailAddressID string
	EmailAddresses        []EmailAddress
}

// PrimaryEmail returns the address whose id matches the primary id, or "".
func (u *User) PrimaryEmail() string {
	if u == nil {
		return ""
	}
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	return ""
}

// Claims is the JWT payload issued by the identity provider.
type Claims struct {
	PrimaryEmailAddressID string         `json:"primary_email_address_id,omitempty"`
	EmailAddresses        []EmailAddress `json:"email_addresses,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates session tokens with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier returns a Verifier.  An empty issuer disables the iss check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses raw and returns the caller it identifies.
func (v *Verifier) Verify(raw string) (*User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &User{
		ID:                    claims.Subject,
		PrimaryEmailAddressID: claims.PrimaryEmailAddressID,
		EmailAddresses:        claims.EmailAddresses,
	}, nil
}

// IssueToken signs a session token for u valid for ttl.  Used by tests
// and local tooling that stand in for the identity provider.
func IssueToken(secret, issuer string, u User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		PrimaryEmailAddressID: u.PrimaryEmailAddressID,
		EmailAddresses:        u.EmailAddresses,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
