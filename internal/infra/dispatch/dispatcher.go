package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Dispatcher delivers notifications on a bounded queue drained by a fixed
// worker group. Notify never blocks; a full queue drops the message.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	queue  chan shared.Notification
	closed bool

	group  *errgroup.Group
	cancel context.CancelFunc
}

func NewDispatcher(sender Sender, logger *slog.Logger, cfg config.CheckoutConfig) *Dispatcher {
	workers := cfg.NotifyWorkers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.NotifyQueue
	if size <= 0 {
		size = 1
	}
	timeout := cfg.NotifyTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		workers: workers,
		timeout: timeout,
		queue:   make(chan shared.Notification, size),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for range d.workers {
		g.Go(func() error {
			for n := range d.queue {
				d.deliver(gctx, n)
			}
			return nil
		})
	}
	d.group = g
}

func (d *Dispatcher) Notify(n shared.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logFailure(n, "dispatcher stopped")
		return
	}

	select {
	case d.queue <- n:
	default:
		d.logFailure(n, "notification queue full")
	}
}

// Stop closes the queue and waits for queued messages until ctx expires.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	if d.group == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n shared.Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, n.To, n.Subject, n.HTMLBody); err != nil {
		d.logFailure(n, err.Error())
		return
	}
	d.logger.Info("notification sent",
		slog.String("kind", string(n.Kind)),
		slog.String("order_number", n.OrderNumber.String()),
		slog.String("to", n.To))
}

func (d *Dispatcher) logFailure(n shared.Notification, reason string) {
	d.logger.Error("notification failed",
		slog.String("kind", string(n.Kind)),
		slog.String("order_number", n.OrderNumber.String()),
		slog.String("to", n.To),
		slog.String("reason", reason))
}
