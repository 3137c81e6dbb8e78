// Package bloom tracks which page URLs a harvest run has already queued.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter remembers the URLs queued in the harvest frontier. It may
// wrongly claim a URL was queued, which only skips a discovered page.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter sizes a Filter for a frontier of about n URLs.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add marks url as queued.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether url looks queued.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// TestAndAdd marks url as queued and reports whether it looked queued
// already.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}

// Count is roughly how many distinct URLs were queued.
func (f *Filter) Count() uint {
	return uint(f.f.ApproximatedSize())
}
