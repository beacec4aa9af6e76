package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type bounds struct{ lo, hi float64 }

func clamp(lo, hi float64) Handler[float64, struct{}] {
	return func(v float64, _ struct{}) float64 {
		return math.Max(lo, math.Min(hi, v))
	}
}

func TestComposeFoldsLeftToRight(t *testing.T) {
	var order []string
	step := func(name string, add float64) Handler[float64, string] {
		return func(v float64, ctx string) float64 {
			order = append(order, name+":"+ctx)
			return v + add
		}
	}

	h := Compose(step("a", 1), nil, step("b", 10))
	got := h(0.5, "ctx")

	assert.Equal(t, 11.5, got)
	assert.Equal(t, []string{"a:ctx", "b:ctx"}, order)
}

func TestComposeEmptyIsIdentity(t *testing.T) {
	h := Compose[float64, struct{}]()
	assert.Equal(t, 42.0, h(42, struct{}{}))

	var zero Chain[float64, struct{}]
	assert.Equal(t, 7.0, zero.Apply(7, struct{}{}))
}

func TestComposeIsOrderDependent(t *testing.T) {
	// Disjoint ranges: whichever clamp runs last wins.
	a := clamp(0, 4)
	b := clamp(6, 9)

	ab := Compose(a, b)
	ba := Compose(b, a)

	assert.Equal(t, 6.0, ab(5, struct{}{}))
	assert.Equal(t, 4.0, ba(5, struct{}{}))
	assert.NotEqual(t, ab(5, struct{}{}), ba(5, struct{}{}))
}

func TestComposeIsAssociative(t *testing.T) {
	a := clamp(0, 4)
	b := clamp(6, 9)
	c := func(v float64, _ struct{}) float64 { return v * 2 }

	left := Compose(Compose(a, b), c)
	right := Compose(a, Compose(b, c))
	flat := Compose(a, b, c)

	for _, v := range []float64{-3, 0, 2.5, 5, 7, 12} {
		assert.Equal(t, flat(v, struct{}{}), left(v, struct{}{}), "v=%v", v)
		assert.Equal(t, flat(v, struct{}{}), right(v, struct{}{}), "v=%v", v)
	}
}

func TestChainAppendPrependDoNotMutate(t *testing.T) {
	double := func(v float64, _ bounds) float64 { return v * 2 }
	inc := func(v float64, _ bounds) float64 { return v + 1 }
	clampCtx := func(v float64, b bounds) float64 { return math.Max(b.lo, math.Min(b.hi, v)) }

	base := NewChain[float64, bounds](double)
	appended := base.Append(inc)
	prepended := base.Prepend(inc)
	clamped := appended.Append(clampCtx)

	ctx := bounds{lo: 0, hi: 6}
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, appended.Len())
	assert.Equal(t, 6.0, base.Apply(3, ctx))
	assert.Equal(t, 7.0, appended.Apply(3, ctx))
	assert.Equal(t, 8.0, prepended.Apply(3, ctx))
	assert.Equal(t, 6.0, clamped.Apply(3, ctx))
}
