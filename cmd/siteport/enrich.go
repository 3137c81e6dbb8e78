package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/load"
)

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	opts := load.EnrichOptions{SEO: c.SEO, GEO: c.GEO}
	if !opts.SEO && !opts.GEO {
		opts.SEO, opts.GEO = true, true
	}

	result, err := deps.Enricher.EnrichPages(deps.Ctx, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteport.ErrorMessage(err))
		return err
	}

	for _, msg := range result.Errors {
		fmt.Fprintf(deps.Stderr, "  skip %s\n", msg)
	}
	fmt.Fprintf(deps.Stdout, "Enriched %d pages: %d SEO, %d GEO entries created\n",
		result.Pages, result.SEOCreated, result.GEOCreated)
	return nil
}
