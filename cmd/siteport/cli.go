package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/crawl"
	"github.com/fwojciec/siteport/load"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config    *siteport.HarvestConfig
	Harvester *crawl.Harvester
	Manifests siteport.ManifestReader
	Loader    *load.Loader
	Enricher  *load.Enricher

	// SpaceID and EnvironmentID name the CMS target in summaries.
	SpaceID       string
	EnvironmentID string

	Fetcher  siteport.Fetcher
	Detector siteport.StrategyDetector
	ReadFile func(name string) ([]byte, error)
}

// AI providers selectable with --ai.
const (
	aiContentful = "contentful"
	aiGemini     = "gemini"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log every fetch and CMS call"`
	DB      string `name:"db" env:"SITEPORT_DB" help:"Keep harvests in this SQLite database instead of files"`

	Harvest HarvestCmd `cmd:"" help:"Harvest the pages of a site"`
	Load    LoadCmd    `cmd:"" help:"Load the last harvest into Contentful"`
	Enrich  EnrichCmd  `cmd:"" help:"Add SEO and AI discovery entries to existing pages"`
	Run     RunCmd     `cmd:"" help:"Harvest a site and load it into Contentful"`
	Detect  DetectCmd  `cmd:"" help:"Detect how a page is rendered"`
}

// HarvestFlags select what to harvest and where to keep it.
type HarvestFlags struct {
	Config  string `short:"c" required:"" help:"Harvest config file (JSON or YAML)"`
	Output  string `short:"o" help:"Output directory, overriding the config"`
	Browser bool   `help:"Render pages in headless Chrome"`
}

// CMSFlags select the CMS target and AI enrichment.
type CMSFlags struct {
	Token       string `env:"CONTENTFUL_MANAGEMENT_TOKEN" help:"Contentful management token"`
	Space       string `short:"s" env:"CONTENTFUL_SPACE_ID" help:"Contentful space ID"`
	Environment string `short:"e" default:"master" env:"CONTENTFUL_ENVIRONMENT" help:"Contentful environment"`
	SEO         bool   `help:"Generate SEO metadata"`
	GEO         bool   `help:"Generate AI discovery content"`
	AI          string `enum:"contentful,gemini" default:"contentful" help:"AI provider (${enum})"`
	GeminiKey   string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key for --ai gemini"`
}

// loadOptions returns the enrichment selected by the flags.
func (f *CMSFlags) loadOptions() load.LoadOptions {
	return load.LoadOptions{SEO: f.SEO, GEO: f.GEO}
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	HarvestFlags `embed:""`
}

// LoadCmd is the "load" subcommand.
type LoadCmd struct {
	CMSFlags `embed:""`
	Input    string `short:"i" default:"output" help:"Directory holding the harvest"`
}

// EnrichCmd is the "enrich" subcommand. Without --seo or --geo both are
// generated.
type EnrichCmd struct {
	CMSFlags `embed:""`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	HarvestFlags `embed:""`
	CMSFlags     `embed:""`
}

// DetectCmd is the "detect" subcommand.
type DetectCmd struct {
	URL  string `arg:"" optional:"" help:"Page URL"`
	File string `short:"f" type:"existingfile" help:"Detect from a saved HTML file"`
}
