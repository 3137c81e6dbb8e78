package mock

import "github.com/fwojciec/siteport"

// Compile-time interface verification.
var (
	_ siteport.StrategyDetector = (*StrategyDetector)(nil)
	_ siteport.PageAssembler    = (*PageAssembler)(nil)
	_ siteport.PayloadExtractor = (*PayloadExtractor)(nil)
	_ siteport.ImageInventory   = (*ImageInventory)(nil)
	_ siteport.LinkExtractor    = (*LinkExtractor)(nil)
)

// StrategyDetector is a mock implementation of siteport.StrategyDetector.
type StrategyDetector struct {
	DetectFn func(html, pageURL string) *siteport.DetectionResult
}

func (d *StrategyDetector) Detect(html, pageURL string) *siteport.DetectionResult {
	return d.DetectFn(html, pageURL)
}

// PageAssembler is a mock implementation of siteport.PageAssembler.
type PageAssembler struct {
	AssembleFn func(html, pageURL string) (*siteport.Page, error)
}

func (a *PageAssembler) Assemble(html, pageURL string) (*siteport.Page, error) {
	return a.AssembleFn(html, pageURL)
}

// PayloadExtractor is a mock implementation of siteport.PayloadExtractor.
type PayloadExtractor struct {
	ExtractFn func(html, baseURL string) *siteport.StructuredPayload
}

func (e *PayloadExtractor) Extract(html, baseURL string) *siteport.StructuredPayload {
	return e.ExtractFn(html, baseURL)
}

// ImageInventory is a mock implementation of siteport.ImageInventory.
type ImageInventory struct {
	InventoryFn func(html, pageURL string) []siteport.ImageRef
}

func (i *ImageInventory) Inventory(html, pageURL string) []siteport.ImageRef {
	return i.InventoryFn(html, pageURL)
}

// LinkExtractor is a mock implementation of siteport.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, pageURL string) ([]siteport.DiscoveredLink, error)
}

func (e *LinkExtractor) ExtractLinks(html, pageURL string) ([]siteport.DiscoveredLink, error) {
	return e.ExtractLinksFn(html, pageURL)
}
