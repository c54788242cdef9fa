package bizcuitapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// HTTPClient talks to the Bizcuit open API over HTTPS. The OAuth2 consent and
// exchange legs go through golang.org/x/oauth2, the account and transaction
// endpoints are plain bearer-authenticated GETs.
type HTTPClient struct {
	baseURL    string
	oauth      *oauth2.Config
	httpClient *http.Client
}

// HTTPClientOption modifies an HTTPClient instance.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets the underlying http.Client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = httpClient
	}
}

// New creates a client for the Bizcuit API at apiURL. redirectURL is the
// absolute callback address registered with Bizcuit for this client ID.
func New(apiURL, clientID, clientSecret, redirectURL string, options ...HTTPClientOption) *HTTPClient {
	baseURL := strings.TrimSuffix(apiURL, "/")

	c := &HTTPClient{
		baseURL: baseURL,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "account_information"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/auth",
				TokenURL:  baseURL + "/openapi/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

var _ Client = &HTTPClient{}

// AuthCodeURL builds the consent URL. Only the minimum scope is requested:
// identity plus read-only account information, never payment scopes. Consent
// is forced so the user confirms every download.
func (c *HTTPClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode posts the authorization code with the client credentials and
// returns the access and identity tokens.
func (c *HTTPClient) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	oauthToken, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		log.Err(err).Msg("exchangeCode")
		return nil, errors.Wrap(err, "[ExchangeCode] oauth.Exchange")
	}

	identityToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("[ExchangeCode] no identity token in response")
	}

	return &Token{
		AccessToken:   oauthToken.AccessToken,
		IdentityToken: identityToken,
	}, nil
}

// ListAccounts retrieves all bank accounts accessible with the token.
func (c *HTTPClient) ListAccounts(ctx context.Context, accessToken string) ([]BankAccount, error) {
	body, err := c.get(ctx, accessToken, c.baseURL+"/openapi/bank_accounts")
	if err != nil {
		log.Err(err).Msg("listAccounts")
		return nil, errors.Wrap(err, "[ListAccounts] bank_accounts")
	}

	var payload struct {
		BankAccounts []BankAccount `json:"bank_accounts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Err(err).Msg("listAccounts")
		return nil, errors.Wrap(err, "[ListAccounts] decode bank_accounts")
	}

	return payload.BankAccounts, nil
}

// FetchTransactions retrieves one CAMT page of the account's transactions
// after the given entry reference.
func (c *HTTPClient) FetchTransactions(ctx context.Context, accessToken, accountID, afterID string) (string, error) {
	requestURL := fmt.Sprintf("%s/openapi/bank_accounts/%s/transactions?format=camt", c.baseURL, url.PathEscape(accountID))
	if afterID != "" {
		requestURL += "&after_id=" + url.QueryEscape(afterID)
	}

	body, err := c.get(ctx, accessToken, requestURL)
	if err != nil {
		log.Err(err).Msg("fetchTransactions")
		return "", errors.Wrap(err, "[FetchTransactions] transactions")
	}

	return string(body), nil
}

func (c *HTTPClient) get(ctx context.Context, accessToken, requestURL string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext")
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "httpClient.Do")
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll")
	}

	if response.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("unexpected status %s", response.Status)
	}

	return body, nil
}
