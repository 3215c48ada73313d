//go:build unit

package dispatch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"storefront-checkout/internal/infra/dispatch"
	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
	block   chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, to, _, _ string) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := s.failFor[to]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

func (s *recordingSender) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDispatcher(sender dispatch.Sender, workers, queue int) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(sender, discardLogger(), config.CheckoutConfig{
		NotifyWorkers: workers,
		NotifyQueue:   queue,
		NotifyTimeout: time.Second,
	})
}

func TestDispatcher_DeliversQueuedMessages(t *testing.T) {
	sender := &recordingSender{}
	d := newDispatcher(sender, 2, 8)
	d.Start(context.Background())

	d.Notify(shared.Notification{Kind: shared.NotificationCustomer, OrderNumber: "ORD-123456", To: "a@example.com"})
	d.Notify(shared.Notification{Kind: shared.NotificationOps, OrderNumber: "ORD-123456", To: "ops@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.ElementsMatch(t, []string{"a@example.com", "ops@example.com"}, sender.Sent())
}

func TestDispatcher_SendFailureDoesNotStopOthers(t *testing.T) {
	sender := &recordingSender{failFor: map[string]error{
		"broken@example.com": errors.New("smtp: 550 mailbox unavailable"),
	}}
	d := newDispatcher(sender, 1, 8)
	d.Start(context.Background())

	d.Notify(shared.Notification{To: "broken@example.com"})
	d.Notify(shared.Notification{To: "ops@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, []string{"ops@example.com"}, sender.Sent())
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := newDispatcher(sender, 1, 1)
	d.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for range 10 {
			d.Notify(shared.Notification{To: "x@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sender.block)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.LessOrEqual(t, len(sender.Sent()), 2)
}

func TestDispatcher_NotifyAfterStopIsDropped(t *testing.T) {
	sender := &recordingSender{}
	d := newDispatcher(sender, 1, 4)
	d.Start(context.Background())
	require.NoError(t, d.Stop(context.Background()))

	assert.NotPanics(t, func() {
		d.Notify(shared.Notification{To: "late@example.com"})
	})
	assert.Empty(t, sender.Sent())
}
