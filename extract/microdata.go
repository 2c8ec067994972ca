package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/ladle/fetcher"
)

// MicrodataExtractor reads the schema.org Recipe vocabulary from
// itemscope/itemprop tag attributes. It covers older sites that annotate
// their markup directly instead of embedding a JSON-LD block.
type MicrodataExtractor struct{}

func (e *MicrodataExtractor) Name() string { return "microdata" }

func (e *MicrodataExtractor) Extract(doc *fetcher.Document) (*Candidate, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err != nil {
		return nil, ErrNotFound
	}

	scope := findRecipeScope(root)
	if scope == nil {
		return nil, ErrNotFound
	}

	cand := &Candidate{
		Title:       itempropText(scope, "name"),
		Description: itempropText(scope, "description"),
		PrepTime:    itempropValue(scope, "prepTime"),
		CookTime:    itempropValue(scope, "cookTime"),
		TotalTime:   itempropValue(scope, "totalTime"),
		Yield:       itempropValue(scope, "recipeYield"),
		Calories:    itempropText(scope, "calories"),
		Extra:       map[string]string{},
	}

	scope.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			cand.Ingredients = append(cand.Ingredients, IngredientLine{Text: text})
		}
	})

	cand.Instructions, cand.InstructionText = microdataInstructions(scope)

	scope.Find(`[itemprop="image"]`).Each(func(_ int, s *goquery.Selection) {
		if src := imageSource(s); src != "" {
			cand.Images = append(cand.Images, src)
		}
	})

	return cand, nil
}

// findRecipeScope locates the element declaring itemscope with a
// schema.org/Recipe itemtype. Both the http and https vocabulary URLs occur
// in the wild.
func findRecipeScope(root *goquery.Document) *goquery.Selection {
	var scope *goquery.Selection
	root.Find("[itemscope][itemtype]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		itemtype, _ := s.Attr("itemtype")
		trimmed := strings.TrimSuffix(strings.TrimSpace(itemtype), "/")
		if strings.HasSuffix(strings.ToLower(trimmed), "schema.org/recipe") {
			scope = s
			return false
		}
		return true
	})
	return scope
}

// microdataInstructions collects recipeInstructions elements. An element
// wrapping a list contributes one step per list item; several annotated
// elements contribute one step each; a single flat element becomes the blob
// the normalizer segments into steps.
func microdataInstructions(scope *goquery.Selection) (steps []string, blob string) {
	matches := scope.Find(`[itemprop="recipeInstructions"]`)
	if matches.Length() == 0 {
		return nil, ""
	}

	if matches.Length() == 1 {
		items := matches.Find("li")
		if items.Length() > 0 {
			items.Each(func(_ int, s *goquery.Selection) {
				if text := collapseSpace(s.Text()); text != "" {
					steps = append(steps, text)
				}
			})
			return steps, ""
		}
		return nil, collapseSpace(matches.Text())
	}

	matches.Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			steps = append(steps, text)
		}
	})
	return steps, ""
}

// itempropValue reads a property in attribute form: <meta itemprop=...
// content=...> or <time itemprop=... datetime=...>, falling back to the
// element text.
func itempropValue(scope *goquery.Selection, prop string) string {
	s := scope.Find(`[itemprop="` + prop + `"]`).First()
	if s.Length() == 0 {
		return ""
	}
	if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}
	if datetime, ok := s.Attr("datetime"); ok && strings.TrimSpace(datetime) != "" {
		return strings.TrimSpace(datetime)
	}
	return collapseSpace(s.Text())
}

func itempropText(scope *goquery.Selection, prop string) string {
	s := scope.Find(`[itemprop="` + prop + `"]`).First()
	if s.Length() == 0 {
		return ""
	}
	if text := collapseSpace(s.Text()); text != "" {
		return text
	}
	content, _ := s.Attr("content")
	return strings.TrimSpace(content)
}

// imageSource reads an image reference from the attribute forms microdata
// images appear in.
func imageSource(s *goquery.Selection) string {
	for _, attr := range []string{"src", "href", "content"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return collapseSpace(s.Text())
}

// collapseSpace trims and collapses runs of whitespace to single spaces,
// flattening the indentation and newlines that element text carries.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
