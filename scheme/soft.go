// SPDX-License-Identifier: MIT

// Package scheme: soft threshold — logistic down-weighting of past edges.

package scheme

import (
	"fmt"
	"math"

	"github.com/lineagelab/fateflow/matrix"
)

// Soft multiplies the weight of every edge pointing to the pseudotemporal
// past by 2/(1+exp(B·dt^Nu)), where dt > 0 is how far past the target lies.
// The factor tends to 1 as dt → 0 and falls monotonically toward 0 with
// growing dt; edges to the future keep their weight.
type Soft struct {
	b, nu float64
}

// NewSoft builds a soft scheme. b (steepness) and nu (softness exponent)
// must both be positive.
func NewSoft(b, nu float64) (Soft, error) {
	if math.IsNaN(b) || b <= 0 {
		return Soft{}, fmt.Errorf("%w: got %g", ErrSteepness, b)
	}
	if math.IsNaN(nu) || nu <= 0 {
		return Soft{}, fmt.Errorf("%w: got %g", ErrSoftness, nu)
	}

	return Soft{b: b, nu: nu}, nil
}

// DefaultSoft returns a soft scheme with B = DefaultSteepness and
// Nu = DefaultSoftness.
func DefaultSoft() Soft {
	s, _ := NewSoft(DefaultSteepness, DefaultSoftness)

	return s
}

// B reports the configured steepness.
func (s Soft) B() float64 { return s.b }

// Nu reports the configured softness exponent.
func (s Soft) Nu() float64 { return s.nu }

// CacheKey implements Scheme.
func (s Soft) CacheKey() string {
	return fmt.Sprintf("soft:b=%g:nu=%g", s.b, s.nu)
}

// Bias implements Scheme.
func (s Soft) Bias(conn *matrix.CSR, pseudotime []float64, opts ...Option) (*matrix.CSR, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	fn := func(cellPT float64, neighPT, weights []float64) []float64 {
		out := make([]float64, len(weights))
		for k, w := range weights {
			dt := cellPT - neighPT[k]
			if dt <= 0 {
				out[k] = w
				continue
			}
			out[k] = w * 2 / (1 + math.Exp(s.b*math.Pow(dt, s.nu)))
		}

		return out
	}

	return biasRows(conn, pseudotime, fn, o)
}
