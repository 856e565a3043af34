package subclone

import (
	"sort"
	"strings"
	"sync"
)

// DigestCache stores the fragments of each digested Record so that
// a Record is only searched for cut sites once. Entries are written once and
// never evicted: it is up to the owner of the cache to decide its lifetime
// (and to Clear it if Records might change).
type DigestCache struct {
	mu      sync.RWMutex
	digests map[string][]*Fragment
}

// NewDigestCache returns an empty DigestCache
func NewDigestCache() *DigestCache {
	return &DigestCache{digests: make(map[string][]*Fragment)}
}

// Len returns the number of digests in the cache
func (c *DigestCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.digests)
}

// Clear removes every digest from the cache
func (c *DigestCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digests = make(map[string][]*Fragment)
}

func (c *DigestCache) load(key string) ([]*Fragment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fragments, ok := c.digests[key]
	return fragments, ok
}

// store saves the fragments under key unless there's already an entry,
// and returns whichever fragments are cached
func (c *DigestCache) store(key string, fragments []*Fragment) []*Fragment {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.digests[key]; ok {
		return existing
	}
	c.digests[key] = fragments
	return fragments
}

// Digest cuts a Record with a set of enzymes. It returns the fragments of
// both strands, ordered by the position of their left cut. The cache is
// optional.
//
// Returned fragments are shared with the cache and must not be modified.
func Digest(r *Record, enzymes []Enzyme, cache *DigestCache) []*Fragment {
	return newDigester(enzymes, cache, nil).digest(r)
}

// digester digests Records with a fixed set of enzymes, through a cache
type digester struct {
	enzymes    []Enzyme
	enzymesKey string
	cache      *DigestCache
	metrics    *Metrics
}

func newDigester(enzymes []Enzyme, cache *DigestCache, metrics *Metrics) *digester {
	if cache == nil {
		cache = NewDigestCache()
	}

	sites := make([]string, len(enzymes))
	for i, enz := range enzymes {
		sites[i] = enz.String()
	}

	return &digester{
		enzymes:    enzymes,
		enzymesKey: strings.Join(sites, ","),
		cache:      cache,
		metrics:    metrics,
	}
}

func (d *digester) digest(r *Record) []*Fragment {
	key := d.enzymesKey + "|" + r.key()
	if fragments, ok := d.cache.load(key); ok {
		d.metrics.cacheHit()
		return fragments
	}
	d.metrics.cacheMiss()

	return d.cache.store(key, catalyze(r, d.enzymes))
}

// cut is a single cut made by an enzyme in a sequence
type cut struct {
	enzyme Enzyme

	// start of the overhang region of the cut
	start int
}

// top is the index of the top strand cut
func (c cut) top() int {
	if c.enzyme.Overhang == ThreePrime {
		return c.start + c.enzyme.HangLen
	}
	return c.start
}

// bottom is the index of the bottom strand cut
func (c cut) bottom() int {
	if c.enzyme.Overhang == ThreePrime {
		return c.start
	}
	return c.start + c.enzyme.HangLen
}

// overhang returns the cut's overhang with the cut position marked: "^GGAG"
// for a 5' overhang and "GGAG^" for a 3' overhang
func (c cut) overhang(seq string, reverse bool) string {
	hang := circularSlice(seq, c.start, c.enzyme.HangLen)
	if reverse {
		hang = revComp(hang)
	}
	if c.enzyme.Overhang == ThreePrime {
		return hang + "^"
	}
	return "^" + hang
}

// cuts returns every cut the enzymes make in a circular sequence, sorted by
// position. A position cut by more than one enzyme (or site) counts once
func cuts(seq string, enzymes []Enzyme) []cut {
	seen := make(map[int]bool)
	var all []cut
	for _, enz := range enzymes {
		for _, start := range enz.overhangStarts(seq) {
			if seen[start] {
				continue
			}
			seen[start] = true
			all = append(all, cut{enzyme: enz, start: start})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].start < all[j].start
	})
	return all
}

// catalyze digests a record and returns the fragments between each pair of
// neighboring cuts, from both strands. Sites are searched as if the record were
// circular, so the last fragment spans the zero-index
func catalyze(r *Record, enzymes []Enzyme) []*Fragment {
	seq := strings.ToUpper(r.Seq)
	n := len(seq)
	if n == 0 {
		return nil
	}

	recordCuts := cuts(seq, enzymes)
	source := r.key()

	fragments := make([]*Fragment, 0, 2*len(recordCuts))
	for i, c := range recordCuts {
		next := recordCuts[(i+1)%len(recordCuts)]

		wrap := 0
		if i == len(recordCuts)-1 {
			wrap = n // wraps around the zero-index
		}

		length := next.top() + wrap - c.top()
		lengthRC := next.bottom() + wrap - c.bottom()
		if length <= 0 || lengthRC <= 0 {
			continue // overlapping cut sites
		}

		left := c.overhang(seq, false)
		right := next.overhang(seq, false)

		fragments = append(fragments, &Fragment{
			ID:       r.ID,
			Seq:      circularSlice(seq, c.top(), length),
			Left:     left,
			Right:    right,
			Features: featuresIn(r.Features, n, mod(c.top(), n), length, false),
			source:   source,
		}, &Fragment{
			ID:       r.ID,
			Seq:      revComp(circularSlice(seq, c.bottom(), lengthRC)),
			Left:     next.overhang(seq, true),
			Right:    c.overhang(seq, true),
			Reverse:  true,
			Features: featuresIn(r.Features, n, mod(c.bottom(), n), lengthRC, true),
			source:   source,
		})
	}

	return fragments
}
