package bizcuit

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-bizcuit-gateway/bizcuitapi"
	"github.com/pkg/errors"
)

// Request tracks one Bizcuit download flow from consent redirect to
// consumption. Requests are owned by the Registry and evicted after a short
// maximum age, so a Request never outlives a single user interaction.
type Request struct {
	ID        string    // Unique request identifier (UUID), doubles as the OAuth2 state parameter
	CreatedAt time.Time // When the request was registered, basis for eviction

	pincode string // 6-digit confirmation code mailed to the account holder
	code    string // Authorization code from the consent redirect, single use

	accessToken string                     // Set once the code exchange has succeeded
	identity    *bizcuitapi.IdentityClaims // Claims from the identity token, carry the verified email
}

func newRequest(now time.Time) (*Request, error) {
	pincode, err := generatePincode()
	if err != nil {
		return nil, errors.Wrap(err, "[newRequest] generatePincode")
	}

	return &Request{
		ID:        uuid.New().String(),
		CreatedAt: now,
		pincode:   pincode,
	}, nil
}

// SetCode records the authorization code delivered by the consent redirect.
// The code's authenticity is only established later, at exchange time.
func (r *Request) SetCode(code string) {
	r.code = code
}

// VerifyPincode reports whether the supplied value matches the pincode mailed
// to the account holder. Comparison is verbatim string equality.
func (r *Request) VerifyPincode(pincode string) bool {
	return r.pincode != "" && r.pincode == pincode
}

// Authorized reports whether the code exchange has completed.
func (r *Request) Authorized() bool {
	return r.accessToken != ""
}

// setToken installs the exchanged access token and identity claims and clears
// the authorization code, which must never be exchanged twice.
func (r *Request) setToken(accessToken string, identity *bizcuitapi.IdentityClaims) {
	r.accessToken = accessToken
	r.identity = identity
	r.code = ""
}

func (r *Request) email() string {
	if r.identity == nil {
		return ""
	}
	return r.identity.Email
}

// generatePincode returns a random 6-digit code in [100000, 999999].
func generatePincode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", errors.Wrap(err, "rand.Int")
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
