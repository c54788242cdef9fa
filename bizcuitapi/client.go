package bizcuitapi

import (
	"context"

	"github.com/shopspring/decimal"
)

// Token is the result of exchanging an authorization code.
type Token struct {
	AccessToken   string // Bearer token for the open API endpoints
	IdentityToken string // JWT carrying the account holder's identity (email)
}

// BankAccount is one entry of the bank account listing.
// Balance requires the account_information scope.
type BankAccount struct {
	ID      string          `json:"id"`
	IBAN    string          `json:"iban"`
	Active  bool            `json:"active"`
	Balance decimal.Decimal `json:"balance"`
}

// Client is the boundary to the Bizcuit open API. Implementations perform the
// OAuth2 consent and exchange steps and the paginated account/transaction
// calls; callers own all flow state.
type Client interface {
	// AuthCodeURL builds the consent URL a user is redirected to. The state
	// parameter correlates the eventual callback to a pending request.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges an authorization code for an access token and
	// identity token. A code is single use.
	ExchangeCode(ctx context.Context, code string) (*Token, error)

	// ListAccounts returns every bank account reachable with the token.
	ListAccounts(ctx context.Context, accessToken string) ([]BankAccount, error)

	// FetchTransactions returns one CAMT page of the account's transactions,
	// strictly after the given entry reference. An empty afterID starts from
	// the beginning, an empty result means there is nothing (left) to fetch.
	// Pages hold at most 100 transactions and reach at most 180 days back,
	// both enforced by the provider.
	FetchTransactions(ctx context.Context, accessToken, accountID, afterID string) (string, error)
}
