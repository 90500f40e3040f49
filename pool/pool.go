// Package pool implements random draws without replacement over a clip catalog.
//
// A Pool starts empty. Refill copies the master catalog into it and every Draw
// removes one uniformly chosen entry, so a full cycle visits each catalog entry
// exactly once before the pool has to be refilled.
package pool

import (
	"errors"
	"math/rand/v2"
	"slices"
)

// ErrEmpty is returned by Draw when the pool has nothing left
var ErrEmpty = errors.New("pool is empty")

// Rand is the randomness source used for draws.
// IntN returns a uniformly distributed value in [0, n).
type Rand interface {
	IntN(n int) int
}

// Pool holds the clips not yet played in the current cycle
type Pool struct {
	rng       Rand
	remaining []string
	cycles    int
}

// New creates an empty pool drawing with rng. A nil rng uses an unseeded math/rand/v2 source.
func New(rng Rand) *Pool {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Pool{rng: rng}
}

// Refill replaces the pool contents with a copy of master and starts a new cycle
func (p *Pool) Refill(master []string) {
	p.remaining = slices.Clone(master)
	p.cycles++
}

// IsEmpty reports whether the pool must be refilled before the next draw
func (p *Pool) IsEmpty() bool {
	return len(p.remaining) == 0
}

// Len returns the number of clips left in the current cycle
func (p *Pool) Len() int {
	return len(p.remaining)
}

// Cycle returns the number of refills performed so far
func (p *Pool) Cycle() int {
	return p.cycles
}

// Draw removes and returns a random remaining clip.
// Removal keeps the order of the others, so scripted random sources give reproducible sequences.
func (p *Pool) Draw() (string, error) {
	if len(p.remaining) == 0 {
		return "", ErrEmpty
	}

	i := p.rng.IntN(len(p.remaining))
	item := p.remaining[i]
	p.remaining = slices.Delete(p.remaining, i, i+1)
	return item, nil
}
