package emailsvc

import (
	"sync"

	"github.com/brightpath/academia/core"
)

// dummyService captures rendered messages for tests. Synchronous.
type dummyService struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{}
}

func (svc *dummyService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		_ = msg.Render()
		svc.sent = append(svc.sent, *msg)
	}
}

// SentMessages returns a copy of everything sent so far.
func (svc *dummyService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	cp := make([]core.EmailMessage, len(svc.sent))
	copy(cp, svc.sent)
	return cp
}
