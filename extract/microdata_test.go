package extract

import (
	"errors"
	"testing"
)

const microdataPage = `<!DOCTYPE html>
<html><body>
<div itemscope itemtype="https://schema.org/Recipe">
  <h1 itemprop="name">Käsespätzle</h1>
  <img itemprop="image" src="/bilder/spaetzle.jpg" alt="">
  <meta itemprop="prepTime" content="PT25M">
  <time itemprop="cookTime" datetime="PT15M">15 Minuten</time>
  <span itemprop="recipeYield">4 Portionen</span>
  <ul>
    <li itemprop="recipeIngredient">400 g Spätzle</li>
    <li itemprop="recipeIngredient">200 g Bergkäse</li>
    <li itemprop="recipeIngredient">2 Zwiebeln</li>
  </ul>
  <div itemprop="recipeInstructions">
    <ol>
      <li>Spätzle kochen.</li>
      <li>Mit Käse schichten.</li>
      <li>Mit Röstzwiebeln servieren.</li>
    </ol>
  </div>
</div>
</body></html>`

func TestMicrodata_FullRecipe(t *testing.T) {
	cand, err := (&MicrodataExtractor{}).Extract(doc(microdataPage))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if cand.Title != "Käsespätzle" {
		t.Errorf("Title = %q", cand.Title)
	}
	if len(cand.Images) != 1 || cand.Images[0] != "/bilder/spaetzle.jpg" {
		t.Errorf("Images = %#v (raw form, resolution happens in normalize)", cand.Images)
	}
	if cand.PrepTime != "PT25M" {
		t.Errorf("PrepTime = %q, want content attribute value", cand.PrepTime)
	}
	if cand.CookTime != "PT15M" {
		t.Errorf("CookTime = %q, want datetime attribute value", cand.CookTime)
	}
	if cand.Yield != "4 Portionen" {
		t.Errorf("Yield = %q", cand.Yield)
	}
	if len(cand.Ingredients) != 3 {
		t.Fatalf("Ingredients = %#v", cand.Ingredients)
	}
	if len(cand.Instructions) != 3 {
		t.Fatalf("Instructions = %#v, want one step per list item", cand.Instructions)
	}
	if cand.Instructions[1] != "Mit Käse schichten." {
		t.Errorf("step 2 = %q", cand.Instructions[1])
	}
}

func TestMicrodata_FlatInstructionBlob(t *testing.T) {
	page := `<html><body><article itemscope itemtype="http://schema.org/Recipe">
	<span itemprop="name">Rührei</span>
	<p itemprop="recipeInstructions">Eier verquirlen. In der Pfanne stocken lassen.</p>
	</article></body></html>`
	cand, err := (&MicrodataExtractor{}).Extract(doc(page))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if cand.InstructionText == "" || len(cand.Instructions) != 0 {
		t.Errorf("flat element must become the blob: steps=%#v blob=%q", cand.Instructions, cand.InstructionText)
	}
}

func TestMicrodata_NoRecipeScope(t *testing.T) {
	page := `<html><body><div itemscope itemtype="https://schema.org/NewsArticle">
	<span itemprop="name">Kein Rezept</span></div></body></html>`
	_, err := (&MicrodataExtractor{}).Extract(doc(page))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
