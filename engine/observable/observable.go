// Package observable provides a small publish/subscribe primitive with
// deferred delivery.
//
// Notify never calls listeners inline. It snapshots the listeners registered
// at that moment and queues one delivery task on a Scheduler; the host
// drains the scheduler once per frame. A listener therefore cannot re-enter
// the publisher while the publisher is still committing the change that
// triggered the notification.
package observable

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Observable fans a payload out to registered listeners in registration order
type Observable[T any] struct {
	name      string
	listeners []*entry[T]
	scheduler *Scheduler
	logger    *slog.Logger
	onFailure func(name string, recovered any)
}

type entry[T any] struct {
	fn      func(T)
	ctx     context.Context
	removed bool
}

func (e *entry[T]) live() bool {
	if e.removed {
		return false
	}
	if e.ctx != nil && e.ctx.Err() != nil {
		e.removed = true
		return false
	}
	return true
}

// Option configures an Observable
type Option func(*options)

type options struct {
	name      string
	scheduler *Scheduler
	logger    *slog.Logger
	onFailure func(name string, recovered any)
}

// WithScheduler shares a scheduler between observables
func WithScheduler(s *Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithName labels the observable in logs and failure reports
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithFailureHandler is called after a listener panic has been recovered
func WithFailureHandler(fn func(name string, recovered any)) Option {
	return func(o *options) { o.onFailure = fn }
}

// New creates an observable. Without WithScheduler it owns a private scheduler.
func New[T any](opts ...Option) *Observable[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.scheduler == nil {
		o.scheduler = NewScheduler()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Observable[T]{
		name:      o.name,
		scheduler: o.scheduler,
		logger:    o.logger,
		onFailure: o.onFailure,
	}
}

// SubscribeOption configures a single subscription
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	ctx context.Context
}

// WithContext ties the subscription to ctx. Once ctx is done the listener
// receives nothing more, including deliveries already queued.
func WithContext(ctx context.Context) SubscribeOption {
	return func(o *subscribeOptions) { o.ctx = ctx }
}

// Subscribe registers listener and returns a function removing it.
// The returned function is idempotent.
func (o *Observable[T]) Subscribe(listener func(T), opts ...SubscribeOption) (unsubscribe func()) {
	so := &subscribeOptions{}
	for _, opt := range opts {
		opt(so)
	}
	e := &entry[T]{fn: listener, ctx: so.ctx}
	if listener == nil || (e.ctx != nil && e.ctx.Err() != nil) {
		return func() {}
	}

	// copy-on-write so queued snapshots are never modified
	next := make([]*entry[T], 0, len(o.listeners)+1)
	next = append(next, o.listeners...)
	o.listeners = append(next, e)

	return func() { o.remove(e) }
}

func (o *Observable[T]) remove(e *entry[T]) {
	e.removed = true
	o.prune()
}

func (o *Observable[T]) prune() {
	alive := 0
	for _, e := range o.listeners {
		if e.live() {
			alive++
		}
	}
	if alive == len(o.listeners) {
		return
	}
	next := make([]*entry[T], 0, alive)
	for _, e := range o.listeners {
		if !e.removed {
			next = append(next, e)
		}
	}
	o.listeners = next
}

// Len returns the number of live listeners
func (o *Observable[T]) Len() int {
	o.prune()
	return len(o.listeners)
}

// Notify queues delivery of payload to every listener registered now
func (o *Observable[T]) Notify(payload T) {
	snapshot := o.listeners
	if len(snapshot) == 0 {
		return
	}
	o.scheduler.Enqueue(func() {
		for _, e := range snapshot {
			if !e.live() {
				continue
			}
			o.deliver(e, payload)
		}
		o.prune()
	})
}

func (o *Observable[T]) deliver(e *entry[T], payload T) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("listener panicked",
				"observable", o.name,
				"error", fmt.Sprint(r),
			)
			if o.onFailure != nil {
				o.onFailure(o.name, r)
			}
		}
	}()
	e.fn(payload)
}

// Scheduler returns the scheduler deliveries are queued on
func (o *Observable[T]) Scheduler() *Scheduler {
	return o.scheduler
}

// Flush drains the observable's scheduler
func (o *Observable[T]) Flush() int {
	return o.scheduler.Flush()
}
