package orders

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSinkTimeout bounds each sink call when no timeout is configured.
const DefaultSinkTimeout = 5 * time.Second

// dispatcher delivers order events to the sinks in the background, so a slow
// audit store never holds up the customer. Events keep the order in which
// they were dispatched.
type dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	last    chan struct{}
	pending sync.WaitGroup
}

func newDispatcher(sinks []Sink, timeout time.Duration, logger *zap.Logger) *dispatcher {
	if timeout <= 0 {
		timeout = DefaultSinkTimeout
	}
	return &dispatcher{sinks: sinks, timeout: timeout, logger: logger}
}

func (d *dispatcher) dispatch(orderID string, deliver func(ctx context.Context, sink Sink) error) {
	if len(d.sinks) == 0 {
		return
	}

	d.mu.Lock()
	prev := d.last
	done := make(chan struct{})
	d.last = done
	d.pending.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.pending.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}

		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			err := deliver(ctx, sink)
			cancel()
			if err != nil {
				d.logger.Error("Order sink failed", zap.String("order_id", orderID), zap.Error(err))
			}
		}
	}()
}

// wait blocks until every dispatched event has been delivered.
func (d *dispatcher) wait() {
	d.pending.Wait()
}
