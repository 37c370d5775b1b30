// Package eventbus implements the process-wide publish/subscribe channel for
// progress notifications. Every subscriber owns a buffered channel; Publish
// delivers to subscribers in publish order, so events from one producer are
// observed in the order they were emitted.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
)

const (
	defaultSubscriberBufferSize = 256
	defaultHistorySize          = 128
)

// Options configures a Bus.
type Options struct {
	// SubscriberBufferSize is the channel capacity of every subscription.
	SubscriberBufferSize int
	// BlockOnFull makes Publish wait (up to WriteTimeout) for slow
	// subscribers instead of dropping the event for them.
	BlockOnFull bool
	// WriteTimeout bounds a blocking send; zero waits indefinitely.
	WriteTimeout time.Duration
	// HistorySize is the number of recent events kept for History.
	HistorySize int
	Logger      logging.Logger
}

// Bus is a multi-subscriber event channel. The zero value is not usable;
// construct with New. A nil *Bus silently discards events.
type Bus struct {
	mu          sync.Mutex
	publishMu   sync.Mutex
	subscribers map[uint64]subscription
	nextSubID   uint64
	closed      bool
	closeOnce   sync.Once
	opts        Options
	published   atomic.Int64
	dropped     atomic.Int64
	history     []core.Event
	historyNext int
	historyLen  int
}

type subscription struct {
	id     uint64
	ch     chan core.Event
	filter func(core.Event) bool
}

var _ core.Publisher = (*Bus)(nil)

// New creates a bus with optional overrides.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		SubscriberBufferSize: defaultSubscriberBufferSize,
		HistorySize:          defaultHistorySize,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SubscriberBufferSize <= 0 {
		opts.SubscriberBufferSize = defaultSubscriberBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	b := &Bus{subscribers: make(map[uint64]subscription), opts: opts}
	if opts.HistorySize > 0 {
		b.history = make([]core.Event, opts.HistorySize)
	}
	return b
}

// Subscribe returns a channel receiving every published event and a cancel
// function that removes the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan core.Event, func()) {
	return b.SubscribeFiltered(nil)
}

// SubscribeTypes subscribes to the listed event types only.
func (b *Bus) SubscribeTypes(types ...core.EventType) (<-chan core.Event, func()) {
	set := make(map[core.EventType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return b.SubscribeFiltered(func(e core.Event) bool {
		_, ok := set[e.Type]
		return ok
	})
}

// SubscribeFiltered subscribes with a client-side filter; a nil filter
// accepts every event.
func (b *Bus) SubscribeFiltered(filter func(core.Event) bool) (<-chan core.Event, func()) {
	if b == nil {
		ch := make(chan core.Event)
		close(ch)
		return ch, func() {}
	}

	ch := make(chan core.Event, b.opts.SubscriberBufferSize)
	id := atomic.AddUint64(&b.nextSubID, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subscribers[id] = subscription{id: id, ch: ch, filter: filter}
	b.mu.Unlock()

	return ch, func() { b.remove(id) }
}

// Publish delivers the event to every matching subscriber.
func (b *Bus) Publish(e core.Event) {
	if b == nil {
		return
	}

	// Serializing publishers keeps per-subscriber delivery order equal to
	// publish order.
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.appendHistoryLocked(e)
	subs := make([]subscription, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	b.published.Add(1)
	for _, sub := range subs {
		if sub.filter != nil && !sub.filter(e) {
			continue
		}
		b.send(sub, e)
	}
}

func (b *Bus) send(sub subscription, e core.Event) {
	// The subscription may be removed (and its channel closed) concurrently.
	defer func() {
		if recover() != nil {
			b.dropped.Add(1)
		}
	}()

	if !b.opts.BlockOnFull {
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
			b.opts.Logger.Warn("event dropped for slow subscriber", "subscriber", sub.id, "type", string(e.Type))
		}
		return
	}

	if b.opts.WriteTimeout <= 0 {
		sub.ch <- e
		return
	}
	timer := time.NewTimer(b.opts.WriteTimeout)
	defer timer.Stop()
	select {
	case sub.ch <- e:
	case <-timer.C:
		b.dropped.Add(1)
		b.opts.Logger.Warn("event dropped after write timeout", "subscriber", sub.id, "type", string(e.Type))
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}

// Close removes every subscriber and closes their channels. Publishing after
// Close is a no-op.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		subs := b.subscribers
		b.subscribers = make(map[uint64]subscription)
		b.mu.Unlock()
		for _, sub := range subs {
			close(sub.ch)
		}
	})
}

// History returns the most recent events (oldest first).
func (b *Bus) History() []core.Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.historyLen == 0 {
		return nil
	}
	out := make([]core.Event, 0, b.historyLen)
	start := (b.historyNext - b.historyLen + len(b.history)) % len(b.history)
	for i := 0; i < b.historyLen; i++ {
		out = append(out, b.history[(start+i)%len(b.history)])
	}
	return out
}

// Stats reports the number of published and dropped events.
func (b *Bus) Stats() (published, dropped int64) {
	if b == nil {
		return 0, 0
	}
	return b.published.Load(), b.dropped.Load()
}

func (b *Bus) appendHistoryLocked(e core.Event) {
	if len(b.history) == 0 {
		return
	}
	b.history[b.historyNext] = e
	b.historyNext = (b.historyNext + 1) % len(b.history)
	if b.historyLen < len(b.history) {
		b.historyLen++
	}
}
