package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
)

// Run executes the detect command.
func (c *DetectCmd) Run(deps *Dependencies) error {
	if c.URL == "" && c.File == "" {
		err := siteport.Errorf(siteport.EINVALID, "a URL or --file is required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteport.ErrorMessage(err))
		return err
	}

	label := c.URL
	var html string
	if c.File != "" {
		data, err := deps.ReadFile(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		html = string(data)
		if label == "" {
			label = c.File
		}
	} else {
		var err error
		html, err = deps.Fetcher.Fetch(deps.Ctx, c.URL, siteport.FetchOptions{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", siteport.ErrorMessage(err))
			return err
		}
	}

	result := deps.Detector.Detect(html, label)
	fmt.Fprintln(deps.Stdout, siteport.FormatDetectionReport(label, result))
	return nil
}
