package siteport

import (
	"bytes"
	"encoding/json"
)

// MaxNavDepth is the deepest navigation level ever populated.
const MaxNavDepth = 2

// PayloadSource names the framework a StructuredPayload came from.
type PayloadSource string

const (
	PayloadSourceNext    PayloadSource = "next"
	PayloadSourceNuxt    PayloadSource = "nuxt"
	PayloadSourceGatsby  PayloadSource = "gatsby"
	PayloadSourceUnknown PayloadSource = "unknown"
)

// StructuredPayload is the content recovered from a framework-embedded
// JSON blob.
type StructuredPayload struct {
	Source      PayloadSource   `json:"source"`
	Products    []Product       `json:"products"`
	Navigation  []NavItem       `json:"navigation"`
	HeroBanners []HeroBanner    `json:"heroBanners"`
	FooterLinks []NavItem       `json:"footerLinks"`
	BrandLogos  []BrandLogo     `json:"brandLogos"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// UnmarshalJSON decodes a payload and compacts Raw, so a payload written
// with indentation reads back byte-for-byte as it was extracted.
func (p *StructuredPayload) UnmarshalJSON(data []byte) error {
	type payload StructuredPayload
	var v payload
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v.Raw); err != nil {
			return err
		}
		v.Raw = buf.Bytes()
	}
	*p = StructuredPayload(v)
	return nil
}

// Product is one catalog item. Price is never negative.
type Product struct {
	Name             string   `json:"name"`
	SKU              string   `json:"sku"`
	Slug             string   `json:"slug"`
	Price            float64  `json:"price"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	Currency         string   `json:"currency"`
	ImageURL         string   `json:"imageUrl"`
	ImageAlt         string   `json:"imageAlt"`
	Rating           *float64 `json:"rating,omitempty"`
	ReviewCount      *int     `json:"reviewCount,omitempty"`
	OfferFlag        string   `json:"offerFlag,omitempty"`
	OfferText        string   `json:"offerText,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	URL              string   `json:"url"`
	Category         string   `json:"category,omitempty"`
}

// NavItem is a node of a navigation tree. Level starts at 1.
type NavItem struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	URL      string    `json:"url"`
	Level    int       `json:"level"`
	Children []NavItem `json:"children,omitempty"`
}

// HeroBanner is one slide of a hero carousel.
type HeroBanner struct {
	Headline     string `json:"headline"`
	ImageDesktop string `json:"imageDesktop"`
	ImageMobile  string `json:"imageMobile,omitempty"`
	LinkURL      string `json:"linkUrl"`
	AltText      string `json:"altText"`
}

// BrandLogo is a partner brand shown on a site.
type BrandLogo struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
	LinkURL string `json:"linkUrl"`
}
