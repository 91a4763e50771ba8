package provider

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/rand"
)

// Interval is a half-open [Lo, Hi) interval.
type Interval[T int64 | float64] struct {
	Lo T
	Hi T
}

// Empty reports whether the interval holds no values.
func (i Interval[T]) Empty() bool { return i.Hi <= i.Lo }

// Contains reports whether v lies inside the interval.
func (i Interval[T]) Contains(v T) bool { return v >= i.Lo && v < i.Hi }

// width returns Hi-Lo as a float64. Integer widths are computed unsigned so
// spans wider than math.MaxInt64 do not overflow.
func (i Interval[T]) width() float64 {
	if lo, ok := any(i.Lo).(int64); ok {
		return float64(span(Interval[int64]{Lo: lo, Hi: any(i.Hi).(int64)}))
	}
	return float64(i.Hi - i.Lo)
}

// span returns the number of integers in a non-empty interval.
func span(iv Interval[int64]) uint64 {
	return uint64(iv.Hi) - uint64(iv.Lo)
}

// CheckRange returns ErrEmptyRange when iv holds no values.
func CheckRange[T int64 | float64](iv Interval[T]) error {
	if iv.Empty() {
		return errors.Wrapf(ErrEmptyRange, "[%v, %v)", iv.Lo, iv.Hi)
	}
	return nil
}

// Complement returns the parts of domain not covered by any of cuts, in
// ascending order.
func Complement[T int64 | float64](domain Interval[T], cuts []Interval[T]) []Interval[T] {
	sorted := make([]Interval[T], 0, len(cuts))
	for _, c := range cuts {
		if !c.Empty() {
			sorted = append(sorted, c)
		}
	}
	slices.SortFunc(sorted, func(a, b Interval[T]) int { return cmp.Compare(a.Lo, b.Lo) })

	var out []Interval[T]
	cursor := domain.Lo
	for _, c := range sorted {
		if c.Hi <= cursor {
			continue
		}
		if c.Lo >= domain.Hi {
			break
		}
		if c.Lo > cursor {
			out = append(out, Interval[T]{Lo: cursor, Hi: c.Lo})
		}
		cursor = c.Hi
	}
	if cursor < domain.Hi {
		out = append(out, Interval[T]{Lo: cursor, Hi: domain.Hi})
	}
	return out
}

// PickInterval picks one of ivs with probability proportional to its width.
// Empty intervals are never picked. It returns false when every interval is
// empty.
func PickInterval[T int64 | float64](rng *rand.Rand, ivs []Interval[T]) (Interval[T], bool) {
	var total float64
	last := -1
	for i, iv := range ivs {
		if iv.Empty() {
			continue
		}
		total += iv.width()
		last = i
	}
	if last < 0 {
		return Interval[T]{}, false
	}
	point := rng.Float64() * total
	var cumulative float64
	for _, iv := range ivs {
		if iv.Empty() {
			continue
		}
		cumulative += iv.width()
		if point < cumulative {
			return iv, true
		}
	}
	return ivs[last], true
}

// enumerateLimit is the widest free space DrawInt will list exhaustively.
const enumerateLimit = 1 << 16

// DrawInt returns value(n) for a random n inside ivs whose id is not in
// excluded. Once at least half of a small domain is excluded, the remaining
// candidates are listed and one is picked directly.
func DrawInt(p Provider, rng *rand.Rand, ivs []Interval[int64], excluded *ValueSet, value func(int64) cty.Value) (cty.Value, error) {
	var size uint64
	for _, iv := range ivs {
		if iv.Empty() {
			continue
		}
		size += span(iv)
	}
	if size == 0 {
		return cty.NilVal, ErrExhausted
	}

	if size <= enumerateLimit && uint64(excluded.Len())*2 >= size {
		var free []int64
		for _, iv := range ivs {
			if iv.Empty() {
				continue
			}
			for n := iv.Lo; n < iv.Hi; n++ {
				id, err := p.GetValueID(value(n))
				if err != nil {
					return cty.NilVal, err
				}
				if !excluded.Has(id) {
					free = append(free, n)
				}
			}
		}
		if len(free) == 0 {
			return cty.NilVal, ErrExhausted
		}
		return value(free[rng.Intn(len(free))]), nil
	}

	return Draw(p, excluded, func() (cty.Value, error) {
		iv, ok := PickInterval(rng, ivs)
		if !ok {
			return cty.NilVal, ErrExhausted
		}
		// Signed addition wraps, so Lo plus an unsigned offset below the span
		// always lands inside the interval.
		return value(iv.Lo + int64(rng.Uint64n(span(iv)))), nil
	})
}
