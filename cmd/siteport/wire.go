package main

import (
	"fmt"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/contentful"
	"github.com/fwojciec/siteport/crawl"
	"github.com/fwojciec/siteport/fs"
	"github.com/fwojciec/siteport/gemini"
	"github.com/fwojciec/siteport/goquery"
	"github.com/fwojciec/siteport/htmltomarkdown"
	sphttp "github.com/fwojciec/siteport/http"
	"github.com/fwojciec/siteport/lingua"
	"github.com/fwojciec/siteport/load"
	"github.com/fwojciec/siteport/readability"
	"github.com/fwojciec/siteport/rod"
	spslog "github.com/fwojciec/siteport/slog"
	"github.com/fwojciec/siteport/sqlite"
	"github.com/fwojciec/siteport/trafilatura"
	"google.golang.org/genai"
)

// wiring builds the services one command needs.
type wiring struct {
	main *Main
	cli  *CLI
	deps *Dependencies
}

// harvest loads the config and builds a Harvester for it.
func (w *wiring) harvest(flags *HarvestFlags) error {
	cfg, err := LoadConfig(flags.Config)
	if err != nil {
		return err
	}
	if flags.Output != "" {
		cfg.Options.OutputDir = flags.Output
	}
	if flags.Browser {
		cfg.Options.Adapter = siteport.AdapterBrowser
	}
	w.deps.Config = cfg

	fetcher, err := w.fetcher(cfg.Options.Adapter)
	if err != nil {
		return err
	}
	store, err := w.store(cfg.Options.OutputDir)
	if err != nil {
		return err
	}

	var sitemaps siteport.SitemapService = sphttp.NewSitemapService(nil)
	if w.cli.Verbose {
		sitemaps = spslog.NewLoggingSitemapService(sitemaps, w.deps.Logger)
	}

	assembler := goquery.NewAssembler(
		goquery.WithBodyTextLimit(cfg.Options.BodyTextLimit),
		goquery.WithExtractors(trafilatura.NewExtractor(), readability.NewExtractor(0)),
		goquery.WithConverter(htmltomarkdown.NewConverter()),
		goquery.WithLanguageDetector(lingua.NewDetector()),
	)
	h := &crawl.Harvester{
		Fetcher:    fetcher,
		Detector:   goquery.NewDetector(),
		Assembler:  assembler,
		Store:      store,
		Payloads:   goquery.NewPayloadExtractor(),
		Images:     assembler,
		Links:      goquery.NewLinkExtractor(),
		Sitemaps:   sitemaps,
		Downloader: sphttp.NewDownloader(nil),
		Logger:     w.deps.Logger,
	}
	if rps := cfg.Options.RequestsPerSecond; rps > 0 {
		h.RateLimiter = crawl.NewDomainLimiter(rps)
	}
	w.deps.Harvester = h
	return nil
}

// fetcher returns the configured Fetcher: headless Chrome for the browser
// adapter, plain HTTP otherwise.
func (w *wiring) fetcher(adapter string) (siteport.Fetcher, error) {
	f := w.main.Fetcher
	if f == nil {
		if adapter == siteport.AdapterBrowser {
			rf, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(w.deps.Stderr, "Hint: Chrome or Chromium must be installed")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			w.main.closers = append(w.main.closers, rf.Close)
			f = rf
		} else {
			f = sphttp.NewFetcher()
		}
	}
	if w.cli.Verbose {
		f = spslog.NewLoggingFetcher(f, w.deps.Logger)
	}
	return f, nil
}

// store returns the ManifestStore harvests are written to: the SQLite
// database when --db is set, else files under outputDir.
func (w *wiring) store(outputDir string) (siteport.ManifestStore, error) {
	if w.main.Store != nil {
		return w.main.Store, nil
	}
	if w.cli.DB != "" {
		db, err := w.openDB()
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(db), nil
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return fs.NewStore(outputDir), nil
}

// manifests sets the reader the last harvest is loaded from.
func (w *wiring) manifests(inputDir string) error {
	if r, ok := w.main.Store.(siteport.ManifestReader); ok {
		w.deps.Manifests = r
		return nil
	}
	if w.cli.DB != "" {
		db, err := w.openDB()
		if err != nil {
			return err
		}
		w.deps.Manifests = sqlite.NewStore(db)
		return nil
	}
	w.deps.Manifests = fs.NewStore(inputDir)
	return nil
}

func (w *wiring) openDB() (*sqlite.DB, error) {
	db := sqlite.NewDB(w.cli.DB)
	if err := db.Open(); err != nil {
		fmt.Fprintln(w.deps.Stderr, "Hint: Set SITEPORT_DB or --db to a writable path")
		return nil, fmt.Errorf("failed to open database at %q: %w", w.cli.DB, err)
	}
	w.main.closers = append(w.main.closers, db.Close)
	return db, nil
}

// cms builds the Loader and Enricher. The AI provider is only set up when
// needAI is true.
func (w *wiring) cms(flags *CMSFlags, needAI bool) error {
	entries, assets, ai := w.main.Entries, w.main.Assets, w.main.AI
	w.deps.SpaceID, w.deps.EnvironmentID = flags.Space, flags.Environment

	if entries == nil || assets == nil {
		client, err := contentful.NewClient(flags.Token, flags.Space, flags.Environment)
		if err != nil {
			fmt.Fprintln(w.deps.Stderr, "Hint: Set CONTENTFUL_MANAGEMENT_TOKEN and CONTENTFUL_SPACE_ID, or pass --token and --space")
			return err
		}
		entries, assets = client, client
		if ai == nil && flags.AI == aiContentful {
			ai = client
		}
	}

	if ai == nil && needAI && flags.AI == aiGemini {
		if flags.GeminiKey == "" {
			fmt.Fprintln(w.deps.Stderr, "Hint: Get an API key at https://aistudio.google.com/apikey")
			return siteport.Errorf(siteport.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(w.deps.Ctx, &genai.ClientConfig{
			APIKey:  flags.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(w.deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		ai = gemini.NewActionService(client)
	}

	if w.cli.Verbose {
		logger := w.deps.Logger
		entries = spslog.NewLoggingEntryService(entries, logger)
		assets = spslog.NewLoggingAssetService(assets, logger)
		if ai != nil {
			ai = spslog.NewLoggingAIActionService(ai, logger)
		}
	}

	w.deps.Loader = &load.Loader{
		Entries:    entries,
		Assets:     assets,
		AI:         ai,
		Structured: &load.StructuredLoader{Entries: entries, Assets: assets, Logger: w.deps.Logger},
		Logger:     w.deps.Logger,
	}
	w.deps.Enricher = &load.Enricher{Entries: entries, AI: ai, Logger: w.deps.Logger}
	return nil
}

func (w *wiring) detect() {
	w.deps.Fetcher = w.main.Fetcher
	if w.deps.Fetcher == nil {
		w.deps.Fetcher = sphttp.NewFetcher()
	}
	w.deps.Detector = goquery.NewDetector()
}
