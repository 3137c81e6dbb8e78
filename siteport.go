// Package siteport harvests marketing-site content and loads it into a
// headless CMS. It fetches pages, detects how each site embeds its data,
// extracts a normalized content model, and writes structured CMS entries,
// optionally enriched with AI-generated SEO and discovery metadata.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, contentful/).
package siteport
