// Package pipeline orchestrates a recipe import: fetch the page, try the
// extractors in priority order, normalize the first usable candidate.
//
// The pipeline is stateless between invocations and safe for concurrent
// use; cancelling the context aborts the in-flight fetch.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/ladle/extract"
	"github.com/use-agent/ladle/fetcher"
	"github.com/use-agent/ladle/models"
	"github.com/use-agent/ladle/normalize"
)

// PageFetcher retrieves a document for a URL. *fetcher.Fetcher is the
// production implementation; tests substitute a stub.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Document, error)
}

// Importer runs the extraction pipeline. Construct once, share freely.
type Importer struct {
	fetcher PageFetcher
	chain   []extract.Extractor
}

// New creates an Importer over the given fetcher and extractor chain.
// The chain order is the priority order.
func New(f PageFetcher, chain []extract.Extractor) *Importer {
	return &Importer{fetcher: f, chain: chain}
}

// Result is a successful import with its provenance.
type Result struct {
	Recipe *models.Recipe

	// FinalURL is the page URL after redirects.
	FinalURL string

	// Extractor names the strategy that produced the recipe.
	Extractor string

	FetchDuration   time.Duration
	ExtractDuration time.Duration
}

// Import fetches rawURL and reconstructs a Recipe from the page.
//
// Fetch-level failures propagate with their typed code. An extractor that
// finds nothing, produces malformed data, or yields an empty title is
// silently skipped in favour of the next one; only exhaustion of the whole
// chain surfaces, as UNSUPPORTED_PAGE. Partially-missing optional fields
// are a successful outcome, never an error.
func (imp *Importer) Import(ctx context.Context, rawURL string) (*Result, error) {
	fetchStart := time.Now()
	doc, err := imp.fetcher.Fetch(ctx, rawURL)
	fetchDuration := time.Since(fetchStart)
	if err != nil {
		return nil, err
	}

	extractStart := time.Now()
	for _, ex := range imp.chain {
		cand, err := ex.Extract(doc)
		if err != nil {
			logLevel := slog.LevelDebug
			if !errors.Is(err, extract.ErrNotFound) && !errors.Is(err, extract.ErrMalformed) {
				logLevel = slog.LevelWarn
			}
			slog.Log(ctx, logLevel, "extractor skipped",
				"extractor", ex.Name(), "url", doc.FinalURL, "reason", err)
			continue
		}
		if cand.Empty() {
			slog.Debug("extractor produced empty candidate",
				"extractor", ex.Name(), "url", doc.FinalURL)
			continue
		}

		recipe, err := normalize.Recipe(cand, doc.FinalURL)
		if err != nil {
			// Empty title: treated exactly like a miss of this extractor.
			slog.Debug("candidate rejected by normalizer",
				"extractor", ex.Name(), "url", doc.FinalURL, "reason", err)
			continue
		}

		recipe.SourceURL = rawURL
		enrichFromPageMeta(recipe, doc)

		slog.Info("recipe imported",
			"url", rawURL,
			"extractor", ex.Name(),
			"ingredients", len(recipe.Ingredients),
			"steps", len(recipe.Instructions),
		)
		return &Result{
			Recipe:          recipe,
			FinalURL:        doc.FinalURL,
			Extractor:       ex.Name(),
			FetchDuration:   fetchDuration,
			ExtractDuration: time.Since(extractStart),
		}, nil
	}

	return nil, models.NewImportError(models.ErrCodeUnsupported,
		"could not extract a recipe from this page", nil)
}

// enrichFromPageMeta fills the description and image from page-level
// metadata when the recipe markup carried none. Structured-data values
// always win; this only papers over gaps.
func enrichFromPageMeta(recipe *models.Recipe, doc *fetcher.Document) {
	if recipe.Description != "" && len(recipe.Images) > 0 {
		return
	}
	meta := extract.ExtractPageMeta(doc)
	if recipe.Description == "" {
		recipe.Description = meta.Description
	}
	if len(recipe.Images) == 0 && meta.Image != "" {
		if resolved := normalize.ResolveImageURL(meta.Image, doc.FinalURL); resolved != "" {
			recipe.Images = append(recipe.Images, resolved)
		}
	}
}
