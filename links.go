package siteport

// LinkPriority ranks discovered links. At equal depth, higher priorities
// are harvested first.
type LinkPriority int

const (
	PriorityFooter LinkPriority = iota
	PriorityContent
	PriorityNavigation
)

// DiscoveredLink is a same-site link found on a harvested page.
type DiscoveredLink struct {
	URL      string
	Text     string
	Priority LinkPriority
}

// LinkExtractor finds links to follow when a harvest run has a MaxDepth.
type LinkExtractor interface {
	// ExtractLinks returns same-host page links of html, resolved against
	// pageURL, without fragments or duplicates, in document order.
	ExtractLinks(html, pageURL string) ([]DiscoveredLink, error)
}
