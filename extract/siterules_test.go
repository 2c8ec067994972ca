package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/use-agent/ladle/fetcher"
)

const ruledPage = `<!DOCTYPE html>
<html><body>
<h1 class="recipe-title">Omas Apfelkuchen</h1>
<img class="hero" src="/media/apfelkuchen.jpg">
<div class="ingredient-group">
  <h3>Für den Teig</h3>
  <ul>
    <li class="ingredient">300 g Mehl</li>
    <li class="ingredient">200 g Butter</li>
  </ul>
</div>
<div class="ingredient-group">
  <h3>Für den Belag</h3>
  <ul>
    <li class="ingredient">1 kg Äpfel</li>
  </ul>
</div>
<ol class="steps">
  <li>Teig kneten und kühlen.</li>
  <li>Äpfel schälen und schneiden.</li>
  <li>Backen bis goldbraun.</li>
</ol>
<span class="servings">12 Stücke</span>
</body></html>`

func testRegistry(t *testing.T) *RuleRegistry {
	t.Helper()
	r := NewRuleRegistry()
	err := r.Register("kuchenwelt.example", RuleSet{
		Title:            "h1.recipe-title",
		Images:           "img.hero",
		IngredientGroups: ".ingredient-group",
		GroupLabel:       "h3",
		Ingredients:      "li.ingredient",
		Instructions:     "ol.steps li",
		Servings:         "span.servings",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func ruledDoc(url string) *fetcher.Document {
	return &fetcher.Document{Body: ruledPage, FinalURL: url, ContentType: "text/html"}
}

func TestSiteRules_GroupedExtraction(t *testing.T) {
	ex := &SiteRulesExtractor{Rules: testRegistry(t)}
	cand, err := ex.Extract(ruledDoc("https://www.kuchenwelt.example/rezepte/apfelkuchen"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if cand.Title != "Omas Apfelkuchen" {
		t.Errorf("Title = %q", cand.Title)
	}
	if len(cand.Ingredients) != 3 {
		t.Fatalf("Ingredients = %#v", cand.Ingredients)
	}
	if cand.Ingredients[0].Group != "Für den Teig" {
		t.Errorf("group 1 = %q", cand.Ingredients[0].Group)
	}
	if cand.Ingredients[2].Group != "Für den Belag" {
		t.Errorf("group 2 = %q", cand.Ingredients[2].Group)
	}
	if len(cand.Instructions) != 3 {
		t.Fatalf("Instructions = %#v", cand.Instructions)
	}
	if len(cand.Images) != 1 || cand.Images[0] != "/media/apfelkuchen.jpg" {
		t.Errorf("Images = %#v", cand.Images)
	}
	if cand.Yield != "12 Stücke" {
		t.Errorf("Yield = %q", cand.Yield)
	}
}

func TestSiteRules_InstructionContainerWithList(t *testing.T) {
	// A selector matching the wrapping <ol> must still yield one step per
	// list item instead of a blob the normalizer would sentence-split.
	r := NewRuleRegistry()
	if err := r.Register("kuchenwelt.example", RuleSet{
		Title:        "h1.recipe-title",
		Ingredients:  "li.ingredient",
		Instructions: "ol.steps",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ex := &SiteRulesExtractor{Rules: r}
	cand, err := ex.Extract(ruledDoc("https://kuchenwelt.example/apfelkuchen"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if cand.InstructionText != "" {
		t.Errorf("InstructionText = %q, want per-item steps", cand.InstructionText)
	}
	if len(cand.Instructions) != 3 {
		t.Fatalf("Instructions = %#v", cand.Instructions)
	}
	if cand.Instructions[1] != "Äpfel schälen und schneiden." {
		t.Errorf("step 2 = %q", cand.Instructions[1])
	}
}

func TestSiteRules_SingleFlatInstructionMatch(t *testing.T) {
	page := `<html><body>
	<h1 class="recipe-title">Schneller Nudelsalat</h1>
	<ul><li class="ingredient">500 g Nudeln</li></ul>
	<div class="preparation">Nudeln kochen. Abkühlen lassen. Alles vermengen.</div>
	</body></html>`

	r := NewRuleRegistry()
	if err := r.Register("kuchenwelt.example", RuleSet{
		Title:        "h1.recipe-title",
		Ingredients:  "li.ingredient",
		Instructions: "div.preparation",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ex := &SiteRulesExtractor{Rules: r}
	cand, err := ex.Extract(&fetcher.Document{Body: page, FinalURL: "https://kuchenwelt.example/nudelsalat"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(cand.Instructions) != 0 {
		t.Errorf("Instructions = %#v, want blob for a flat container", cand.Instructions)
	}
	if cand.InstructionText == "" {
		t.Error("InstructionText empty, want the flat container text")
	}
}

func TestSiteRules_SubdomainFallsBackToParentDomain(t *testing.T) {
	ex := &SiteRulesExtractor{Rules: testRegistry(t)}
	cand, err := ex.Extract(ruledDoc("https://rezepte.kuchenwelt.example/apfelkuchen"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if cand.Title != "Omas Apfelkuchen" {
		t.Errorf("Title = %q", cand.Title)
	}
}

func TestSiteRules_UnknownDomain(t *testing.T) {
	ex := &SiteRulesExtractor{Rules: testRegistry(t)}
	_, err := ex.Extract(ruledDoc("https://unbekannt.example/seite"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSiteRules_StaleSelectors(t *testing.T) {
	r := NewRuleRegistry()
	if err := r.Register("kuchenwelt.example", RuleSet{
		Title:       "h1.no-such-class",
		Ingredients: "li.no-such-class",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ex := &SiteRulesExtractor{Rules: r}
	_, err := ex.Extract(ruledDoc("https://kuchenwelt.example/apfelkuchen"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound when the markup drifted", err)
	}
}

func TestSiteRules_InvalidSelectorRejected(t *testing.T) {
	r := NewRuleRegistry()
	if err := r.Register("broken.example", RuleSet{Title: "h1[["}); err == nil {
		t.Error("Register() accepted an unparsable selector")
	}
}

func TestRuleRegistry_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `kuchenwelt.example:
  title: h1.recipe-title
  ingredients: li.ingredient
  instructions: ol.steps li
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRuleRegistry()
	before := r.Len()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if r.Len() != before+1 {
		t.Errorf("Len() = %d, want %d", r.Len(), before+1)
	}

	ex := &SiteRulesExtractor{Rules: r}
	cand, err := ex.Extract(ruledDoc("https://kuchenwelt.example/apfelkuchen"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(cand.Ingredients) != 3 {
		t.Errorf("Ingredients = %#v", cand.Ingredients)
	}
}

func TestRuleRegistry_LoadFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewRuleRegistry().LoadFile(path); err == nil {
		t.Error("LoadFile() accepted invalid YAML")
	}
}
