package apifake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-bizcuit-gateway/bizcuitapi"
)

// FetchCall records one transaction page request.
type FetchCall struct {
	AccountID string
	AfterID   string
}

// FakeClient is a scripted in-memory implementation of bizcuitapi.Client.
type FakeClient struct {
	mu sync.Mutex

	Token       *bizcuitapi.Token
	ExchangeErr error

	Accounts    []bizcuitapi.BankAccount
	AccountsErr error

	// Pages scripts the transaction endpoint: accountID -> afterID -> CAMT
	// page. A missing entry behaves like the real API returning no data.
	Pages    map[string]map[string]string
	FetchErr error

	ExchangeCalls int
	FetchCalls    []FetchCall
}

// NewFakeClient creates an empty fake client.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Pages: make(map[string]map[string]string),
	}
}

var _ bizcuitapi.Client = &FakeClient{}

// AuthCodeURL returns a stable consent URL carrying the state parameter.
func (f *FakeClient) AuthCodeURL(state string) string {
	return "https://bizcuit.example/auth?response_type=code&state=" + state
}

// ExchangeCode returns the scripted token and counts invocations.
func (f *FakeClient) ExchangeCode(_ context.Context, _ string) (*bizcuitapi.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ExchangeCalls++
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	return f.Token, nil
}

// ListAccounts returns the scripted account list.
func (f *FakeClient) ListAccounts(_ context.Context, _ string) ([]bizcuitapi.BankAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.AccountsErr != nil {
		return nil, f.AccountsErr
	}
	return f.Accounts, nil
}

// FetchTransactions returns the scripted page for the given cursor and
// records the call.
func (f *FakeClient) FetchTransactions(_ context.Context, _, accountID, afterID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.FetchCalls = append(f.FetchCalls, FetchCall{AccountID: accountID, AfterID: afterID})
	if f.FetchErr != nil {
		return "", f.FetchErr
	}
	return f.Pages[accountID][afterID], nil
}

// SetPage scripts one transaction page for the given account and cursor.
func (f *FakeClient) SetPage(accountID, afterID, camt string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.Pages[accountID]; !ok {
		f.Pages[accountID] = make(map[string]string)
	}
	f.Pages[accountID][afterID] = camt
}
