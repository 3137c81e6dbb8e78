// Package fs stores harvest runs as JSON files on disk.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/siteport"
	"gopkg.in/yaml.v3"
)

var (
	_ siteport.ManifestStore  = (*Store)(nil)
	_ siteport.ManifestReader = (*Store)(nil)
)

// File layout of a harvest directory.
const (
	DirName      = "harvest"
	PagesDir     = "pages"
	AssetsDir    = "assets"
	ManifestFile = "manifest.json"
	BrandingFile = "branding.json"
)

// Store writes a harvest run under outputDir/harvest. Writes go to
// outputDir/harvest.tmp, which replaces the previous run on Commit.
// Writes to distinct files are safe for concurrent use.
type Store struct {
	outputDir string
}

// NewStore creates a Store rooted at outputDir.
func NewStore(outputDir string) *Store {
	return &Store{outputDir: outputDir}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.outputDir, DirName+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.outputDir, DirName)
}

// PageFileName returns the file name a page with slug is stored under.
func PageFileName(slug string) string {
	return strings.ReplaceAll(slug, "/", "_") + ".json"
}

// SavePage writes the page as JSON and, when it has a Markdown body, as
// Markdown with YAML front matter next to it.
func (s *Store) SavePage(_ context.Context, page *siteport.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	name := PageFileName(page.Slug)
	if err := s.writeJSON(filepath.Join(PagesDir, name), page); err != nil {
		return err
	}
	if page.BodyMarkdown == "" {
		return nil
	}
	doc, err := FormatPage(page)
	if err != nil {
		return err
	}
	return s.write(filepath.Join(PagesDir, strings.TrimSuffix(name, ".json")+".md"), []byte(doc))
}

func (s *Store) SaveBranding(_ context.Context, branding *siteport.Branding) error {
	return s.writeJSON(BrandingFile, branding)
}

// SaveAsset writes an asset body. fileName must be a bare file name.
func (s *Store) SaveAsset(_ context.Context, fileName string, data []byte) error {
	if fileName == "" || fileName != filepath.Base(fileName) || fileName == "." || fileName == ".." {
		return siteport.Errorf(siteport.EINVALID, "invalid asset file name: %q", fileName)
	}
	return s.write(filepath.Join(AssetsDir, fileName), data)
}

func (s *Store) SaveManifest(_ context.Context, manifest *siteport.Manifest) error {
	return s.writeJSON(ManifestFile, manifest)
}

// Commit replaces the previous run with the pending one.
func (s *Store) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the pending run.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// LoadManifest reads the committed manifest.
func (s *Store) LoadManifest(_ context.Context) (*siteport.Manifest, error) {
	path := filepath.Join(s.finalDir(), ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, siteport.Errorf(siteport.ENOTFOUND, "no harvest manifest at %s; run harvest first", path)
	} else if err != nil {
		return nil, err
	}

	var m siteport.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &m, nil
}

func (s *Store) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.write(rel, data)
}

func (s *Store) write(rel string, data []byte) error {
	path := filepath.Join(s.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// frontMatter is the YAML header of a Markdown page export.
type frontMatter struct {
	Source      string   `yaml:"source"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Language    string   `yaml:"language,omitempty"`
	Breadcrumbs []string `yaml:"breadcrumbs,omitempty"`
}

// FormatPage renders a page's Markdown body with YAML front matter.
func FormatPage(page *siteport.Page) (string, error) {
	fm := frontMatter{
		Source:      page.URL,
		Title:       page.Title,
		Description: page.Description,
		Language:    page.Language,
	}
	if page.Taxonomy != nil {
		fm.Breadcrumbs = page.Taxonomy.Breadcrumbs
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.BodyMarkdown)
	b.WriteString("\n")
	return b.String(), nil
}
