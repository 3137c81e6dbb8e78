package siteport

// Page represents one harvested document.
type Page struct {
	URL             string  `json:"url"`
	Type            URLType `json:"type,omitempty"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	H1              string  `json:"h1"`
	Description     string  `json:"description"`
	BodyText        string  `json:"bodyText"`
	BodyMarkdown    string  `json:"bodyMarkdown,omitempty"`
	MetaTitle       string  `json:"metaTitle"`
	MetaDescription string  `json:"metaDescription"`
	OGTitle         string  `json:"ogTitle"`
	OGDescription   string  `json:"ogDescription"`
	OGImage         string  `json:"ogImage"`
	Language        string  `json:"language,omitempty"`
	ContentHash     string  `json:"contentHash,omitempty"`

	Images       []string `json:"images"`
	HeroSubtitle string   `json:"heroSubtitle,omitempty"`
	HeroCTAText  string   `json:"heroCtaText,omitempty"`
	HeroCTALink  string   `json:"heroCtaLink,omitempty"`

	Sections       []Section          `json:"sections,omitempty"`
	Branding       *Branding          `json:"branding,omitempty"`
	Taxonomy       *TaxonomyHints     `json:"taxonomyHints,omitempty"`
	Strategy       Strategy           `json:"strategy,omitempty"`
	StructuredData *StructuredPayload `json:"structuredData,omitempty"`
}

// Validate returns an error if the page is missing required fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Slug == "" {
		return Errorf(EINVALID, "page slug required")
	}
	return nil
}

// Section is a heading followed by the list items that belong to it.
type Section struct {
	Title string        `json:"title"`
	Items []SectionItem `json:"items"`
}

// SectionItem is one named entry of a Section. Link may be empty.
type SectionItem struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}

// Branding holds the inferred visual identity of a site.
type Branding struct {
	LogoURL        string   `json:"logoUrl,omitempty"`
	FaviconURL     string   `json:"faviconUrl,omitempty"`
	PrimaryColor   string   `json:"primaryColor,omitempty"`
	SecondaryColor string   `json:"secondaryColor,omitempty"`
	AccentColor    string   `json:"accentColor,omitempty"`
	HeadingFont    string   `json:"headingFont,omitempty"`
	BodyFont       string   `json:"bodyFont,omitempty"`
	BorderRadius   string   `json:"borderRadius,omitempty"`
	HeroImageURL   string   `json:"heroImageUrl,omitempty"`
	ProductImages  []string `json:"productImages"`
}

// TaxonomyHints holds per-page classification signals.
type TaxonomyHints struct {
	Breadcrumbs       []string `json:"breadcrumbs"`
	URLPath           []string `json:"urlPath"`
	MetaCategories    []string `json:"metaCategories"`
	SuggestedConcepts []string `json:"suggestedConcepts"`
}

// PageAssembler runs every field extractor against one fetched page.
type PageAssembler interface {
	// Assemble builds a Page from raw HTML fetched from pageURL.
	// Extraction is best-effort; only an unusable URL is an error.
	Assemble(html, pageURL string) (*Page, error)
}

// PayloadExtractor pulls framework-embedded structured data out of a page.
type PayloadExtractor interface {
	// Extract returns nil when the page carries no usable payload.
	Extract(html, baseURL string) *StructuredPayload
}
