package libvitrite

import (
	"bytes"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// Canonize normalizes a closed walk of distinct nodes into canonical cycle
// form: rotated so the smallest node leads, traversed in whichever direction
// compares lexicographically smaller.  The input slice is not retained.
func Canonize(walk []govitrite.NodeID) govitrite.Cycle {
	n := len(walk)
	c := make(govitrite.Cycle, n)
	k := minIndex(walk)

	// forward rotation starting at the minimum
	for i := 0; i < n; i++ {
		c[i] = walk[(k+i)%n]
	}

	// nodes are distinct, so comparing the two neighbors of the minimum
	// decides direction; walk the tie out just in case
	for i := 1; i < n; i++ {
		fwd := c[i]
		rev := c[n-i]
		if fwd < rev {
			break
		}
		if fwd > rev {
			reverseTail(c)
			break
		}
	}
	return c
}

// CanonizeDirected normalizes a directed closed walk: rotation only, since
// reversing a directed cycle changes its meaning.
func CanonizeDirected(walk []govitrite.NodeID) govitrite.Cycle {
	n := len(walk)
	c := make(govitrite.Cycle, n)
	k := minIndex(walk)
	for i := 0; i < n; i++ {
		c[i] = walk[(k+i)%n]
	}
	return c
}

func minIndex(walk []govitrite.NodeID) int {
	k := 0
	for i, ni := range walk {
		if ni < walk[k] {
			k = i
		}
	}
	return k
}

// reverseTail reverses c[1:], turning the forward traversal from c[0] into
// the backward one.
func reverseTail(c govitrite.Cycle) {
	for i, j := 1, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}

// CompareKeys orders two canonical cycle keys: shorter cycles first, then
// lexicographic on the canonical node sequence.
func CompareKeys(a, b govitrite.CycleKey) int {
	return bytes.Compare(a, b)
}

// ShortestArcDist returns the along-cycle distance between positions i and j
// of a cycle of length L (the shorter of the two arcs).
func ShortestArcDist(L, i, j int) int {
	dist := i - j
	if dist < 0 {
		dist = -dist
	}
	if flipAt := L >> 1; dist > flipAt {
		dist = L - dist
	}
	return dist
}
