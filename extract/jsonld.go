package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/ladle/fetcher"
)

// JSONLDExtractor reads schema.org Recipe objects from embedded
// <script type="application/ld+json"> blocks. It is the highest-fidelity
// strategy: sites that publish linked data describe their recipes in a
// machine-readable vocabulary independent of the page layout.
type JSONLDExtractor struct{}

func (e *JSONLDExtractor) Name() string { return "jsonld" }

func (e *JSONLDExtractor) Extract(doc *fetcher.Document) (*Candidate, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err != nil {
		return nil, ErrNotFound
	}

	blocks := root.Find(`script[type="application/ld+json"]`)
	if blocks.Length() == 0 {
		return nil, ErrNotFound
	}

	var (
		recipe     map[string]any
		parseError bool
	)
	blocks.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			parseError = true
			return true
		}
		if node := findRecipeNode(payload); node != nil {
			recipe = node
			return false
		}
		return true
	})

	if recipe == nil {
		if parseError {
			// Linked data is present but broken; let the pipeline fall
			// through to the lower-fidelity strategies.
			return nil, ErrMalformed
		}
		return nil, ErrNotFound
	}

	return candidateFromJSONLD(recipe), nil
}

// findRecipeNode walks a decoded JSON-LD payload looking for the first node
// typed as a schema.org Recipe. Handles a top-level object, a top-level
// array, and @graph wrapping.
func findRecipeNode(payload any) map[string]any {
	switch v := payload.(type) {
	case map[string]any:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			return findRecipeNode(graph)
		}
	case []any:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	}
	return nil
}

// isRecipeType matches "@type": "Recipe" in both its string and array forms,
// case-insensitively.
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.EqualFold(v, "Recipe")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

func candidateFromJSONLD(node map[string]any) *Candidate {
	cand := &Candidate{
		Title:       jsonString(node["name"]),
		Description: jsonString(node["description"]),
		Images:      jsonImages(node["image"]),
		PrepTime:    jsonString(node["prepTime"]),
		CookTime:    jsonString(node["cookTime"]),
		TotalTime:   jsonString(node["totalTime"]),
		Yield:       jsonYield(node["recipeYield"]),
		Extra:       map[string]string{},
	}

	if cand.CookTime == "" {
		// schema.org uses performTime for recipes where "cooking" is a
		// stretch (no-bake cakes, drinks).
		cand.CookTime = jsonString(node["performTime"])
	}

	lines := jsonStringSlice(node["recipeIngredient"])
	if len(lines) == 0 {
		lines = jsonStringSlice(node["ingredients"]) // pre-2013 vocabulary
	}
	for _, line := range lines {
		cand.Ingredients = append(cand.Ingredients, IngredientLine{Text: line})
	}

	steps, blob := jsonInstructions(node["recipeInstructions"])
	cand.Instructions = steps
	cand.InstructionText = blob

	if nutrition, ok := node["nutrition"].(map[string]any); ok {
		cand.Calories = jsonString(nutrition["calories"])
	}
	if keywords := jsonString(node["keywords"]); keywords != "" {
		cand.Extra["keywords"] = keywords
	}
	if author := jsonAuthor(node["author"]); author != "" {
		cand.Extra["author"] = author
	}

	return cand
}

// jsonInstructions flattens the many shapes recipeInstructions appears in:
// a plain string, an array of strings, an array of HowToStep objects, or
// HowToSection objects wrapping further steps. Sections contribute their
// steps in order; an unsplit string becomes the blob for the normalizer to
// segment.
func jsonInstructions(v any) (steps []string, blob string) {
	switch inst := v.(type) {
	case string:
		return nil, strings.TrimSpace(inst)
	case []any:
		for _, item := range inst {
			steps = append(steps, instructionSteps(item)...)
		}
	}
	return steps, ""
}

func instructionSteps(item any) []string {
	switch v := item.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case map[string]any:
		if elems, ok := v["itemListElement"].([]any); ok { // HowToSection
			var steps []string
			for _, elem := range elems {
				steps = append(steps, instructionSteps(elem)...)
			}
			return steps
		}
		if s := strings.TrimSpace(jsonString(v["text"])); s != "" { // HowToStep
			return []string{s}
		}
		if s := strings.TrimSpace(jsonString(v["name"])); s != "" {
			return []string{s}
		}
	}
	return nil
}

// jsonString coerces the loosely-typed JSON-LD value forms into one string:
// plain strings pass through, numbers render in their shortest form, and
// arrays collapse to their first element.
func jsonString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case []any:
		if len(s) > 0 {
			return jsonString(s[0])
		}
	}
	return ""
}

func jsonStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s := jsonString(v); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(jsonString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// jsonImages handles the image property's shapes: a URL string, an
// ImageObject with a url field, or an array of either.
func jsonImages(v any) []string {
	var out []string
	switch img := v.(type) {
	case string:
		if s := strings.TrimSpace(img); s != "" {
			out = append(out, s)
		}
	case map[string]any:
		if s := jsonString(img["url"]); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range img {
			out = append(out, jsonImages(item)...)
		}
	}
	return out
}

// jsonYield keeps the first usable value of recipeYield, which sites publish
// as a number, a string ("4 Portionen") or an array of both.
func jsonYield(v any) string {
	switch y := v.(type) {
	case string, float64:
		return jsonString(y)
	case []any:
		for _, item := range y {
			if s := jsonYield(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func jsonAuthor(v any) string {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case map[string]any:
		return jsonString(a["name"])
	case []any:
		if len(a) > 0 {
			return jsonAuthor(a[0])
		}
	}
	return ""
}
