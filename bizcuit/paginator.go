package bizcuit

import (
	"context"

	"github.com/jrsteele09/go-bizcuit-gateway/bizcuitapi"
	"github.com/pkg/errors"
)

// TransactionBatch is one CAMT page of a single bank account's transactions.
type TransactionBatch struct {
	IBAN string `json:"iban"`
	CAMT string `json:"camt"`
}

// Paginator streams CAMT transaction pages for every active bank account
// reachable with an exchanged access token. Pages are fetched one at a time
// and handed to the consumer before the next page is requested, so memory use
// is bounded by a single page.
type Paginator struct {
	api         bizcuitapi.Client
	accessToken string
	resume      map[string]string // IBAN -> last processed entry reference
}

// Each walks all transactions account by account, invoking yield for every
// non-empty page. Accounts flagged inactive by the provider are skipped. A
// resume cursor per IBAN continues pagination strictly after that entry
// reference. Progress is forward only: each cursor is the last entry
// reference of the page just emitted. A non-nil error from yield stops the
// stream.
func (p *Paginator) Each(ctx context.Context, yield func(TransactionBatch) error) error {
	accounts, err := p.api.ListAccounts(ctx, p.accessToken)
	if err != nil {
		return errors.Wrap(err, RemoteAPIFailedErr.Error())
	}

	for _, account := range accounts {
		if !account.Active {
			continue
		}

		cursor := p.resume[account.IBAN]
		for {
			page, err := p.api.FetchTransactions(ctx, p.accessToken, account.ID, cursor)
			if err != nil {
				return errors.Wrap(err, RemoteAPIFailedErr.Error())
			}
			if page == "" {
				break // account exhausted
			}

			if err := yield(TransactionBatch{IBAN: account.IBAN, CAMT: page}); err != nil {
				return err
			}

			next, ok := lastEntryReference(page)
			if !ok {
				break
			}
			cursor = next
		}
	}

	return nil
}
