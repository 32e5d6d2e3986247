// Package eventbus provides an in-process publish/subscribe hub.
//
// Handlers run synchronously on the publisher's goroutine, in subscription
// order. A failing or panicking handler is logged and reported back to the
// publisher, but never prevents the remaining handlers from running.
package eventbus

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handler consumes a published payload.
type Handler func(ctx context.Context, payload any) error

// Publisher publishes payloads on a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Subscriber registers handlers for a topic.
type Subscriber interface {
	Subscribe(topic string, h Handler) *Subscription
}

// HandlerError wraps a failure of a single handler invocation.
type HandlerError struct {
	Topic string
	Index int
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %d on %q: %v", e.Index, e.Topic, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

type subscriber struct {
	id uint64
	h  Handler
}

// Bus is a topic-keyed publish/subscribe hub. The zero value is not usable;
// construct one with New.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber

	published metric.Int64Counter
	failed    metric.Int64Counter
}

// Option configures a Bus.
type Option func(*options)

type options struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider sets the provider used for bus counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	o := options{meterProvider: noop.NewMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter("github.com/xenking/product-page/pkg/eventbus")
	published, err := meter.Int64Counter("eventbus.published",
		metric.WithDescription("Number of payloads published"),
	)
	if err != nil {
		published = noop.Int64Counter{}
	}
	failed, err := meter.Int64Counter("eventbus.handler_failures",
		metric.WithDescription("Number of handler invocations that returned an error or panicked"),
	)
	if err != nil {
		failed = noop.Int64Counter{}
	}

	return &Bus{
		subs:      make(map[string][]subscriber),
		published: published,
		failed:    failed,
	}
}

// Subscribe registers h for every future Publish on topic.
func (b *Bus) Subscribe(topic string, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, h: h})

	return &Subscription{bus: b, topic: topic, id: id}
}

// Subscribers returns the number of handlers currently registered on topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Publish invokes every handler registered on topic with payload. All
// handlers run even if some fail; the failures are combined into the returned
// error (see multierr.Errors).
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	// Snapshot so handlers may subscribe or unsubscribe without deadlocking.
	b.mu.RLock()
	handlers := make([]subscriber, len(b.subs[topic]))
	copy(handlers, b.subs[topic])
	b.mu.RUnlock()

	attrs := metric.WithAttributes(attribute.String("topic", topic))
	b.published.Add(ctx, 1, attrs)

	var errs error
	for i, s := range handlers {
		if err := invoke(ctx, s.h, payload); err != nil {
			b.failed.Add(ctx, 1, attrs)
			zctx.From(ctx).Warn("Event handler failed",
				zap.String("topic", topic),
				zap.Int("handler", i),
				zap.Error(err),
			)
			errs = multierr.Append(errs, &HandlerError{Topic: topic, Index: i, Err: err})
		}
	}
	return errs
}

func invoke(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()
	return h(ctx, payload)
}

func (b *Bus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		subs = slices.Delete(subs, i, i+1)
		if len(subs) == 0 {
			delete(b.subs, topic)
		} else {
			b.subs[topic] = subs
		}
		return
	}
}

// Subscription is a handle returned by Subscribe.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint64
	once  sync.Once
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string { return s.topic }

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s.topic, s.id) })
}
