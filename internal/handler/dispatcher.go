package handler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hr-intake-bot/internal/dto"
	"hr-intake-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// workerIdleTimeout is how long an identity's worker lingers without events
// before shutting down.
const workerIdleTimeout = 5 * time.Minute

// EventHandler processes one inbound event to completion.
type EventHandler interface {
	Handle(ctx context.Context, ev *dto.InboundEvent)
}

// Dispatcher consumes inbound events from the bus and feeds them to the
// update handler. Events for one identity are processed strictly in arrival
// order by a dedicated worker; different identities run concurrently.
type Dispatcher struct {
	subscriber message.Subscriber
	topic      string
	handler    EventHandler
	log        logger.ILogger

	mu      sync.Mutex
	workers map[int64]*identityWorker
}

// identityWorker holds one identity's unbounded event queue. Pushes never
// block, so a stalled identity cannot back-pressure the consume loop.
type identityWorker struct {
	mu      sync.Mutex
	queue   []*dto.InboundEvent
	wake    chan struct{}
	retired bool
}

func newIdentityWorker() *identityWorker {
	return &identityWorker{wake: make(chan struct{}, 1)}
}

// push appends the event and reports false when the worker already retired,
// in which case the caller must install a fresh one.
func (w *identityWorker) push(ev *dto.InboundEvent) bool {
	w.mu.Lock()
	if w.retired {
		w.mu.Unlock()
		return false
	}
	w.queue = append(w.queue, ev)
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

func (w *identityWorker) pop() (*dto.InboundEvent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return nil, false
	}
	ev := w.queue[0]
	w.queue = w.queue[1:]
	return ev, true
}

func NewDispatcher(subscriber message.Subscriber, topic string, handler EventHandler, log logger.ILogger) *Dispatcher {
	return &Dispatcher{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		log:        log,
		workers:    make(map[int64]*identityWorker),
	}
}

// Run subscribes to the inbound topic and dispatches until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	messages, err := d.subscriber.Subscribe(ctx, d.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			d.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (d *Dispatcher) processMessage(ctx context.Context, msg *message.Message) {
	var ev dto.InboundEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		d.log.Error("dispatcher", "failed to unmarshal inbound event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed events are not retriable
		return
	}
	d.enqueue(ctx, &ev)
	msg.Ack()
}

// enqueue hands the event to the identity's worker, creating one on first
// use. The single consume goroutine is the only caller, so per-identity
// arrival order is the push order; the push itself never blocks.
func (d *Dispatcher) enqueue(ctx context.Context, ev *dto.InboundEvent) {
	for {
		d.mu.Lock()
		w, ok := d.workers[ev.Identity]
		if !ok {
			w = newIdentityWorker()
			d.workers[ev.Identity] = w
			go d.runWorker(ctx, ev.Identity, w)
		}
		d.mu.Unlock()
		if w.push(ev) {
			return
		}
		// Lost a race with the worker retiring; it is already out of the
		// map, so the next lookup installs a replacement.
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, identity int64, w *identityWorker) {
	idle := time.NewTimer(workerIdleTimeout)
	defer idle.Stop()

	for {
		for {
			ev, ok := w.pop()
			if !ok {
				break
			}
			d.handler.Handle(ctx, ev)
		}

		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(workerIdleTimeout)

		select {
		case <-w.wake:
		case <-idle.C:
			if d.retire(identity, w) {
				return
			}
		case <-ctx.Done():
			d.retireNow(identity, w)
			return
		}
	}
}

// retire removes the worker unless an event raced in after the last drain.
// Lock order is dispatcher then worker, matching no other path.
func (d *Dispatcher) retire(identity int64, w *identityWorker) bool {
	d.mu.Lock()
	w.mu.Lock()
	if len(w.queue) > 0 {
		w.mu.Unlock()
		d.mu.Unlock()
		return false
	}
	w.retired = true
	delete(d.workers, identity)
	w.mu.Unlock()
	d.mu.Unlock()
	return true
}

func (d *Dispatcher) retireNow(identity int64, w *identityWorker) {
	d.mu.Lock()
	w.mu.Lock()
	w.retired = true
	delete(d.workers, identity)
	w.mu.Unlock()
	d.mu.Unlock()
}
