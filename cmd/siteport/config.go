package main

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultOutputDir is where harvests are written when neither the config
// nor -o names a directory.
const DefaultOutputDir = "output"

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads a harvest config from a JSON or YAML file.
func LoadConfig(path string) (*siteport.HarvestConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, siteport.Errorf(siteport.EINVALID, "config file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes, validates, and defaults a harvest config. JSON is
// accepted as a subset of YAML.
func ParseConfig(data []byte) (*siteport.HarvestConfig, error) {
	var cfg siteport.HarvestConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, siteport.Errorf(siteport.EINVALID, "parse config: %v", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, validationError(err)
	}

	for i := range cfg.URLs {
		if cfg.URLs[i].Type == "" {
			cfg.URLs[i].Type = siteport.URLTypePage
		}
	}
	if cfg.Options.Adapter == "" {
		cfg.Options.Adapter = siteport.AdapterHTTP
	}
	if cfg.Options.OutputDir == "" {
		cfg.Options.OutputDir = DefaultOutputDir
	}
	return &cfg, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return siteport.Errorf(siteport.EINVALID, "invalid config: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "HarvestConfig.")
		msgs = append(msgs, field+" "+describe(e))
	}
	return siteport.Errorf(siteport.EINVALID, "invalid config: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s item(s)", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	}
	return fmt.Sprintf("failed validation %q", e.Tag())
}
