package puzzle

import (
	"math/rand"
	"time"
)

// Permutation returns a uniformly random permutation of 0..n-1 (Fisher-Yates).
func Permutation(rng *rand.Rand, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

func isIdentity(p []int) bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

// instantPlan maps piece i to slot plan[i]. A draw that leaves every piece
// at home is redrawn.
func instantPlan(rng *rand.Rand, n int) []int {
	for {
		p := Permutation(rng, n)
		if n < 2 || !isIdentity(p) {
			return p
		}
	}
}

// animatedPlan draws the piece visiting order and the slot order
// independently. target[piece] is the slot it ends in; order is the
// sequence pieces are committed in.
func animatedPlan(rng *rand.Rand, n int) (order, target []int) {
	for {
		order = Permutation(rng, n)
		slots := Permutation(rng, n)
		target = make([]int, n)
		for i, piece := range order {
			target[piece] = slots[i]
		}
		if n < 2 || !isIdentity(target) {
			return order, target
		}
	}
}

// shuffleDuration is base ± jitter, never shorter than floor.
func shuffleDuration(rng *rand.Rand, base, jitter, floor time.Duration) time.Duration {
	d := base
	if jitter > 0 {
		d += time.Duration((rng.Float64()*2 - 1) * float64(jitter))
	}
	if d < floor {
		d = floor
	}
	return d
}
