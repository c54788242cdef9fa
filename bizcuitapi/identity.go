package bizcuitapi

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// IdentityClaims are the claims of the identity token returned alongside the
// access token. Email is the verified address the pincode is sent to.
type IdentityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// DecodeIdentity extracts the claims from an identity token. The signature is
// not verified: the token arrives over the authenticated token endpoint
// channel, never from the user agent.
func DecodeIdentity(identityToken string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(identityToken, claims); err != nil {
		return nil, errors.Wrap(err, "[DecodeIdentity] ParseUnverified")
	}
	return claims, nil
}
