package crawl

import (
	"container/heap"
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/bloom"
)

// Frontier sizing for a single harvest run.
const (
	frontierCapacity = 10000
	frontierFPRate   = 0.01
)

// Target is a URL waiting to be harvested.
type Target struct {
	Entry    siteport.URLEntry
	Depth    int
	Priority siteport.LinkPriority

	// Discovered is set for URLs found by the run rather than configured.
	Discovered bool

	seq int
}

// Frontier orders harvest targets breadth-first: shallower targets come
// first, then higher priorities, then earlier pushes. URLs that differ
// only by fragment are duplicates.
type Frontier struct {
	seen  *bloom.Filter
	queue targetHeap
	next  int
}

// NewFrontier creates a Frontier sized for n URLs with the given false
// positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewFilter(n, fpRate)}
}

// Push queues t. It returns false if t's URL was already queued.
func (f *Frontier) Push(t Target) bool {
	t.Entry.URL = stripFragment(t.Entry.URL)
	if f.seen.TestAndAdd(t.Entry.URL) {
		return false
	}
	t.seq = f.next
	f.next++
	heap.Push(&f.queue, t)
	return true
}

// Pop returns the next target. The bool result is false if the frontier
// is empty.
func (f *Frontier) Pop() (Target, bool) {
	if f.queue.Len() == 0 {
		return Target{}, false
	}
	t, _ := heap.Pop(&f.queue).(Target)
	return t, true
}

// Len returns the number of queued targets.
func (f *Frontier) Len() int {
	return f.queue.Len()
}

// Seen reports whether rawURL was ever queued.
func (f *Frontier) Seen(rawURL string) bool {
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i != -1 {
		return rawURL[:i]
	}
	return rawURL
}

type targetHeap []Target

func (h targetHeap) Len() int { return len(h) }

func (h targetHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h targetHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *targetHeap) Push(x any) {
	t, _ := x.(Target)
	*h = append(*h, t)
}

func (h *targetHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
