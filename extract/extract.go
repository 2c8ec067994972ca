// Package extract locates recipe data inside a fetched page.
//
// Three strategies are tried by the pipeline in fixed priority order:
// JSON-LD (schema.org Recipe blocks), microdata (itemscope/itemprop
// attributes), and per-site selector rules. Each strategy is pure: same
// document in, same candidate out.
package extract

import (
	"errors"

	"github.com/use-agent/ladle/fetcher"
)

// ErrNotFound reports that the document does not carry the shape this
// extractor looks for. This is the expected, common outcome for most
// extractor/page combinations, not a failure.
var ErrNotFound = errors.New("extract: no recipe data found")

// ErrMalformed reports that the expected shape is present but unusable
// (e.g. a JSON-LD block that does not parse). The pipeline recovers by
// falling through to the next extractor.
var ErrMalformed = errors.New("extract: recipe data present but malformed")

// Extractor is one extraction strategy.
type Extractor interface {
	// Name identifies the strategy in responses, logs and metrics.
	Name() string

	// Extract attempts extraction. It returns ErrNotFound when the
	// document lacks this strategy's shape and ErrMalformed when the
	// shape is present but unusable.
	Extract(doc *fetcher.Document) (*Candidate, error)
}

// Candidate is the raw, not-yet-normalized output of one extraction
// attempt. All fields are optional and carry source-form values (ISO
// durations, free-text amounts, relative URLs). It is owned by the
// normalizer call that consumes it and never leaves the pipeline.
type Candidate struct {
	Title       string
	Description string

	// Images in source order; may be relative to the page URL.
	Images []string

	// Ingredients as raw lines, each with the group heading it appeared
	// under when the source structures its list in groups.
	Ingredients []IngredientLine

	// Instructions as an explicit ordered step list, when the source
	// provides one.
	Instructions []string

	// InstructionText is a single unstructured blob, set only when the
	// source provides no explicit step list.
	InstructionText string

	// Timings in source form: ISO-8601 durations or plain minute counts.
	PrepTime  string
	CookTime  string
	RestTime  string
	TotalTime string

	// Yield is the raw servings statement ("4", "4 Portionen").
	Yield string

	// Calories is the raw energy statement ("512 kcal", "512 calories").
	Calories string

	// Extra carries recognized-but-unmapped source fields for debugging.
	Extra map[string]string
}

// IngredientLine is one raw ingredient entry.
type IngredientLine struct {
	Text  string
	Group string // heading of the group this line appeared under, or ""
}

// Empty reports whether the candidate carries nothing an import could use.
func (c *Candidate) Empty() bool {
	return c.Title == "" &&
		len(c.Ingredients) == 0 &&
		len(c.Instructions) == 0 &&
		c.InstructionText == ""
}

// DefaultChain returns the extractor chain in priority order. Higher-fidelity
// formats come first so they win when a page carries more than one.
func DefaultChain(rules *RuleRegistry) []Extractor {
	return []Extractor{
		&JSONLDExtractor{},
		&MicrodataExtractor{},
		&SiteRulesExtractor{Rules: rules},
	}
}
