package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/crawl"
)

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	_, err := runHarvest(deps)
	return err
}

// runHarvest harvests deps.Config and prints progress and a summary.
func runHarvest(deps *Dependencies) (*siteport.Manifest, error) {
	cfg := deps.Config
	fmt.Fprintf(deps.Stdout, "Harvesting %q (%d URLs)\n", cfg.Name, len(cfg.URLs))

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 70))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, siteport.ErrorMessage(event.Error))
		case crawl.ProgressFinished:
			// Summary printed after the harvest completes
		}
	}

	manifest, err := deps.Harvester.Harvest(deps.Ctx, cfg, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteport.ErrorMessage(err))
		return nil, err
	}

	var assetBytes int
	for _, a := range manifest.Assets {
		assetBytes += a.Size
	}
	fmt.Fprintf(deps.Stdout, "  Harvested %d pages (%d failed), %d assets (%s)\n",
		manifest.Summary.Succeeded, manifest.Summary.Failed, len(manifest.Assets), crawl.FormatBytes(assetBytes))
	if manifest.Branding != nil && manifest.Branding.PrimaryColor != "" {
		fmt.Fprintf(deps.Stdout, "  Branding: primary color %s\n", manifest.Branding.PrimaryColor)
	}
	return manifest, nil
}
