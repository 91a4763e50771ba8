// Package planner splits a row count across weighted buckets and hands the
// buckets out one row at a time.
//
// Each bucket receives floor(weight * rows) rows, computed independently of
// the others. Whatever is left over belongs to the default bucket, which the
// caller serves with an unconstrained value. Buckets are drawn without
// replacement, so the final counts match the quotas exactly while the rows
// assigned to each bucket are spread across the run.
package planner

import (
	"math"

	"github.com/vk/datagridgo/internal/generr"
	"golang.org/x/exp/rand"
)

// Default is the bucket index Next returns for rows that fall outside every
// declared bucket.
const Default = -1

// epsilon absorbs binary floating point artifacts such as 0.29*100 being
// 28.999999999999996.
const epsilon = 1e-9

// Validate checks a bucket weight list: it must be non-empty, every weight
// must be positive and the weights must not sum to more than 1.
func Validate(weights []float64) error {
	if len(weights) == 0 {
		return generr.Configurationf("weighted bucket list is empty")
	}

	var sum float64
	for i, w := range weights {
		if math.IsNaN(w) || w <= 0 {
			return generr.Configurationf("bucket %d: weight must be greater than 0, got %v", i, w)
		}
		sum += w
	}
	if sum > 1+epsilon {
		return generr.Configurationf("bucket weights sum to %v, must not exceed 1", sum)
	}

	return nil
}

// Quotas returns the number of rows each bucket receives out of rowCount,
// and the number of rows left for the default bucket. It does not validate
// the weights.
func Quotas(weights []float64, rowCount int) ([]int, int) {
	quotas := make([]int, len(weights))
	remainder := rowCount
	for i, w := range weights {
		q := int(math.Floor(w*float64(rowCount) + epsilon))
		quotas[i] = q
		remainder -= q
	}
	if remainder < 0 {
		// Only reachable through the epsilon when weights sum to exactly 1.
		remainder = 0
	}
	return quotas, remainder
}

// Plan tracks the rows still owed to each bucket of one property.
type Plan struct {
	remaining []int
	def       int
	total     int
	rng       *rand.Rand
}

// New validates weights and builds a plan for rowCount rows. rng decides the
// order in which buckets are handed out.
func New(weights []float64, rowCount int, rng *rand.Rand) (*Plan, error) {
	if err := Validate(weights); err != nil {
		return nil, err
	}
	if rowCount < 0 {
		return nil, generr.Configurationf("row count must not be negative, got %d", rowCount)
	}

	quotas, def := Quotas(weights, rowCount)
	total := def
	for _, q := range quotas {
		total += q
	}

	return &Plan{
		remaining: quotas,
		def:       def,
		total:     total,
		rng:       rng,
	}, nil
}

// Next consumes one row and returns the bucket it belongs to, or Default.
// Once every quota is spent all further rows go to Default.
func (p *Plan) Next() int {
	if p.total == 0 {
		return Default
	}

	pick := p.total - 1
	if p.rng != nil {
		pick = p.rng.Intn(p.total)
	}
	p.total--

	for i, left := range p.remaining {
		if pick < left {
			p.remaining[i]--
			return i
		}
		pick -= left
	}

	p.def--
	return Default
}

// Remaining reports the rows still owed to bucket i.
func (p *Plan) Remaining(i int) int {
	if i < 0 || i >= len(p.remaining) {
		return 0
	}
	return p.remaining[i]
}

// DefaultRemaining reports the rows still owed to the default bucket.
func (p *Plan) DefaultRemaining() int {
	return p.def
}

// Buckets returns the number of declared buckets.
func (p *Plan) Buckets() int {
	return len(p.remaining)
}
