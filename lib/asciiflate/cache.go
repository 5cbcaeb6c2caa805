package asciiflate

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// negativeCache memoizes failed type-2 synthesis attempts, keyed by
// (distinct-byte set, last byte) per spec.md 4.3 and 9 ("Backtracking search
// with memoization"). The planner's shrink-until-it-fits loop (spec.md 4.4
// step 2) re-probes the same chunk prefixes repeatedly across a long input,
// so an unbounded map would grow without limit over the course of a single
// Encode call on pathological input; a bounded, evicting cache (grounded on
// elliotnunn-BeHierarchic's block-cache use of the same library) caps that.
type negativeCache struct {
	t *tinylfu.T[uint64, struct{}]
}

const negativeCacheSize = 4096

func newNegativeCache() *negativeCache {
	return &negativeCache{
		t: tinylfu.New[uint64, struct{}](negativeCacheSize, negativeCacheSize*10, identityHash),
	}
}

func identityHash(k uint64) uint64 { return k }

func negativeCacheKey(data []byte) uint64 {
	distinct := distinctSortedBytes(data)
	h := xxhash.New()
	h.Write(distinct)
	sum := h.Sum64()
	if len(data) > 0 {
		sum ^= uint64(data[len(data)-1]) * 0x9E3779B97F4A7C15
	}
	return sum
}

func (c *negativeCache) knownBad(data []byte) bool {
	_, ok := c.t.Get(negativeCacheKey(data))
	return ok
}

func (c *negativeCache) markBad(data []byte) {
	c.t.Add(negativeCacheKey(data), struct{}{})
}
