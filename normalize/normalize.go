// Package normalize maps a raw extraction candidate onto the canonical
// Recipe shape: ingredient lines are split into amount/unit/name, timings
// are coerced to minutes, image URLs are made absolute, and instruction
// blobs are segmented into steps.
package normalize

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/ladle/extract"
	"github.com/use-agent/ladle/models"
)

// ErrEmptyTitle reports a candidate whose title is empty after trimming.
// The pipeline treats it exactly like an extractor miss and falls through
// to the next strategy; a Recipe without a title is never produced.
var ErrEmptyTitle = errors.New("normalize: candidate has no title")

var firstIntPattern = regexp.MustCompile(`\d+`)

// Recipe converts a candidate into a canonical Recipe. It is total for any
// candidate with a non-empty title: unusable optional fields become absent,
// never errors. Ingredients and steps are only ever carried over from the
// candidate, never invented.
func Recipe(cand *extract.Candidate, finalURL string) (*models.Recipe, error) {
	title := strings.TrimSpace(cand.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	recipe := &models.Recipe{
		Title:        title,
		Description:  strings.TrimSpace(cand.Description),
		Images:       resolveImages(cand.Images, finalURL),
		Categories:   []string{},
		Ingredients:  []models.Ingredient{},
		Instructions: []string{},
		Servings:     firstInt(cand.Yield),
		Calories:     firstInt(cand.Calories),
	}

	for _, line := range cand.Ingredients {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, SplitIngredient(line))
	}

	if len(cand.Instructions) > 0 {
		// Explicit ordered step lists pass through unchanged.
		for _, step := range cand.Instructions {
			if step = FlattenText(step); step != "" {
				recipe.Instructions = append(recipe.Instructions, step)
			}
		}
	} else if cand.InstructionText != "" {
		recipe.Instructions = append(recipe.Instructions, SplitSteps(cand.InstructionText)...)
	}

	recipe.PrepTimeMinutes = ParseMinutes(cand.PrepTime)
	recipe.CookTimeMinutes = ParseMinutes(cand.CookTime)
	recipe.RestTimeMinutes = ParseMinutes(cand.RestTime)

	// totalTime fills the cooking time only when the source states no
	// cookTime of its own: total minus prep when both are known, the whole
	// total otherwise.
	if recipe.CookTimeMinutes == nil {
		if total := ParseMinutes(cand.TotalTime); total != nil {
			cook := *total
			if recipe.PrepTimeMinutes != nil {
				cook -= *recipe.PrepTimeMinutes
			}
			if cook > 0 {
				recipe.CookTimeMinutes = &cook
			}
		}
	}

	return recipe, nil
}

// resolveImages makes image URLs absolute against the page's final
// (post-redirect) URL, dropping data: URIs and anything outside http(s),
// deduplicating while preserving source order.
func resolveImages(images []string, finalURL string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, img := range images {
		abs := ResolveImageURL(img, finalURL)
		if abs == "" {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}

// ResolveImageURL resolves one image reference against the page URL.
// Returns "" for empty, unparsable, or non-http(s) references.
func ResolveImageURL(img, finalURL string) string {
	img = strings.TrimSpace(img)
	if img == "" {
		return ""
	}

	resolved, err := url.Parse(img)
	if base, baseErr := url.Parse(finalURL); baseErr == nil {
		resolved, err = base.Parse(img)
	}
	if err != nil || resolved == nil {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// firstInt pulls the first integer out of a free-form statement such as
// "4 Portionen" or "512 kcal". Nil when no digits occur.
func firstInt(s string) *int {
	match := firstIntPattern.FindString(s)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}
