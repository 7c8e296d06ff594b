package mailservice

import (
	"errors"
	"sync"

	"github.com/go-mail/mail/v2"
)

// MockDialer records outgoing messages instead of talking to an SMTP server.
// FailSends makes the first FailSends calls fail, to exercise retries.
type MockDialer struct {
	mu        sync.Mutex
	Messages  []*mail.Message
	FailSends int
	calls     int
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if d.calls <= d.FailSends {
		return errors.New("mock dial failure")
	}

	d.Messages = append(d.Messages, m...)
	return nil
}

func (d *MockDialer) SentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Messages)
}

// NewMockMailer builds a Mail that renders real templates but delivers
// through the mock dialer.
func NewMockMailer(d *MockDialer, sender string) *Mail {
	return &Mail{
		dialer: d,
		sender: sender,
		parser: NewTemplate(),
	}
}
