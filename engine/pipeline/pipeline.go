// Package pipeline composes ordered chains of pure value transforms.
//
// A Handler receives the value produced by the previous handler and the
// context the chain was applied with. Handlers that restrict their input
// (clamps, locks, snaps) report that only through the value they return;
// a chain always runs to the end.
package pipeline

// Handler transforms v. ctx is shared, unchanged, by every handler of a chain.
type Handler[T, C any] func(v T, ctx C) T

// Compose folds handlers left to right into a single handler.
// Nil handlers are skipped; an empty composition is the identity.
func Compose[T, C any](handlers ...Handler[T, C]) Handler[T, C] {
	hs := make([]Handler[T, C], 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return func(v T, ctx C) T {
		for _, h := range hs {
			v = h(v, ctx)
		}
		return v
	}
}

// Chain is an immutable ordered list of handlers
type Chain[T, C any] struct {
	handlers []Handler[T, C]
	composed Handler[T, C]
}

// NewChain returns a chain applying handlers in the given order
func NewChain[T, C any](handlers ...Handler[T, C]) Chain[T, C] {
	hs := append([]Handler[T, C](nil), handlers...)
	return Chain[T, C]{handlers: hs, composed: Compose(hs...)}
}

// Append returns a new chain with handlers added after the existing ones
func (c Chain[T, C]) Append(handlers ...Handler[T, C]) Chain[T, C] {
	hs := make([]Handler[T, C], 0, len(c.handlers)+len(handlers))
	hs = append(hs, c.handlers...)
	hs = append(hs, handlers...)
	return NewChain(hs...)
}

// Prepend returns a new chain with handlers added before the existing ones
func (c Chain[T, C]) Prepend(handlers ...Handler[T, C]) Chain[T, C] {
	hs := make([]Handler[T, C], 0, len(c.handlers)+len(handlers))
	hs = append(hs, handlers...)
	hs = append(hs, c.handlers...)
	return NewChain(hs...)
}

func (c Chain[T, C]) Len() int {
	return len(c.handlers)
}

// Apply runs v through the chain
func (c Chain[T, C]) Apply(v T, ctx C) T {
	if c.composed == nil {
		return v
	}
	return c.composed(v, ctx)
}
