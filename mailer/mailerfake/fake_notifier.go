package mailerfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-bizcuit-gateway/mailer"
)

// FakeNotifier records every message handed to it.
type FakeNotifier struct {
	mu      sync.Mutex
	sent    []mailer.Message
	SendErr error
}

// NewFakeNotifier creates an empty fake notifier.
func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

var _ mailer.Notifier = &FakeNotifier{}

// Send records the message, or fails with the scripted error.
func (f *FakeNotifier) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		return f.SendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

// Sent returns a copy of the delivered messages.
func (f *FakeNotifier) Sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	sent := make([]mailer.Message, len(f.sent))
	copy(sent, f.sent)
	return sent
}
