package dummymail

import (
	"context"
	"sync"

	"github.com/acadhub/backend/core"
)

// Service records messages instead of sending them. Test backend.
type Service struct {
	mu   sync.Mutex
	sent []core.EmailMessage

	// Err, when set, is returned by every SendMessage call.
	Err error
}

var _ core.EmailService = (*Service)(nil)

func NewService() *Service {
	return &Service{sent: make([]core.EmailMessage, 0)}
}

func (svc *Service) SendMessage(_ context.Context, msg *core.EmailMessage) error {
	if svc.Err != nil {
		return svc.Err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = append(svc.sent, *msg)
	return nil
}

// SentMessages returns a copy of everything recorded so far.
func (svc *Service) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]core.EmailMessage, len(svc.sent))
	copy(out, svc.sent)
	return out
}

func (svc *Service) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = svc.sent[:0]
}
