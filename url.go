package siteport

import (
	"net/url"
	"strings"
)

// MakeAbsolute resolves ref against the origin of baseURL.
//
// Resolution is simple: protocol-relative references get an
// https scheme, root-relative references get the origin prepended, and any
// other reference without an http(s) prefix is joined to the origin root.
// Dot segments ("../") are not resolved. If baseURL cannot be parsed the
// reference is returned unchanged.
func MakeAbsolute(ref, baseURL string) string {
	if ref == "" {
		return ""
	}
	origin, ok := Origin(baseURL)
	if !ok {
		return ref
	}
	switch {
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return origin + ref
	case !strings.HasPrefix(ref, "http"):
		return origin + "/" + ref
	}
	return ref
}

// Origin returns the scheme://host portion of rawURL.
func Origin(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}

// PathSegments returns the non-empty path segments of rawURL.
func PathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Slug derives a page slug from its URL: path segments joined by "/",
// or "home" for the site root.
func Slug(rawURL string) string {
	segments := PathSegments(rawURL)
	if len(segments) == 0 {
		return "home"
	}
	slug := strings.Join(segments, "/")
	if i := strings.Index(slug, "#"); i >= 0 {
		slug = slug[:i]
	}
	return slug
}
