package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/load"
)

// Run executes the load command.
func (c *LoadCmd) Run(deps *Dependencies) error {
	manifest, err := deps.Manifests.LoadManifest(deps.Ctx)
	if err != nil {
		if siteport.ErrorCode(err) == siteport.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'siteport harvest' first")
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteport.ErrorMessage(err))
		return err
	}
	return runLoad(deps, manifest, c.loadOptions())
}

// runLoad loads manifest into the CMS and prints a summary. Failed pages
// are reported but do not fail the command.
func runLoad(deps *Dependencies, manifest *siteport.Manifest, opts load.LoadOptions) error {
	fmt.Fprintf(deps.Stdout, "Loading %d pages into space %s (%s)\n",
		len(manifest.Pages), deps.SpaceID, deps.EnvironmentID)
	for _, page := range manifest.Pages {
		if page.StructuredData == nil {
			continue
		}
		if n := load.EstimateEntries(page.StructuredData); n > load.MaxEntriesWarning {
			fmt.Fprintf(deps.Stderr, "  warning: %s will create about %d entries\n", page.URL, n)
		}
	}

	result, err := deps.Loader.Load(deps.Ctx, manifest, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteport.ErrorMessage(err))
		return err
	}

	for _, r := range result.Pages {
		if r.Error != "" {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", r.URL, r.Error)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %s -> %s (%d sections)\n", r.URL, r.PageID, len(r.SectionIDs))
	}
	fmt.Fprintf(deps.Stdout, "  Loaded %d pages (%d failed)\n", result.Succeeded, result.Failed)
	return nil
}
