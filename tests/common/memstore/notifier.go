//go:build unit || e2e

package memstore

import (
	"sync"

	"storefront-checkout/internal/usecase/shared"
)

type RecordingNotifier struct {
	mu   sync.Mutex
	sent []shared.Notification
}

func (n *RecordingNotifier) Notify(msg shared.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *RecordingNotifier) Sent() []shared.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]shared.Notification(nil), n.sent...)
}

func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
