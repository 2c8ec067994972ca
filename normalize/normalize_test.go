package normalize

import (
	"errors"
	"reflect"
	"testing"

	"github.com/use-agent/ladle/extract"
)

func TestRecipe_EmptyTitleRejected(t *testing.T) {
	for _, title := range []string{"", "   ", "\n\t"} {
		cand := &extract.Candidate{
			Title:       title,
			Ingredients: []extract.IngredientLine{{Text: "250 g Zucker"}},
		}
		_, err := Recipe(cand, "https://example.com/rezept")
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("Recipe(title=%q) err = %v, want ErrEmptyTitle", title, err)
		}
	}
}

func TestRecipe_SparseCandidateSucceeds(t *testing.T) {
	// Only a title: a valid, successful outcome with empty sequences,
	// never fabricated content.
	recipe, err := Recipe(&extract.Candidate{Title: "Marmorkuchen"}, "https://example.com/r")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	if len(recipe.Ingredients) != 0 || recipe.Ingredients == nil {
		t.Errorf("Ingredients = %#v, want empty non-nil slice", recipe.Ingredients)
	}
	if len(recipe.Instructions) != 0 || recipe.Instructions == nil {
		t.Errorf("Instructions = %#v, want empty non-nil slice", recipe.Instructions)
	}
	if recipe.Servings != nil || recipe.Calories != nil || recipe.PrepTimeMinutes != nil {
		t.Error("optional fields must stay absent when the source has none")
	}
	if len(recipe.Categories) != 0 {
		t.Errorf("Categories = %#v, want empty (assigned later by the user)", recipe.Categories)
	}
}

func TestRecipe_RelativeImagesResolved(t *testing.T) {
	cand := &extract.Candidate{
		Title:  "Apfelkuchen",
		Images: []string{"/media/kuchen.jpg", "https://cdn.example.com/a.jpg", "/media/kuchen.jpg", "data:image/png;base64,xyz"},
	}
	recipe, err := Recipe(cand, "https://example.com/rezepte/apfelkuchen")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	want := []string{
		"https://example.com/media/kuchen.jpg",
		"https://cdn.example.com/a.jpg",
	}
	if !reflect.DeepEqual(recipe.Images, want) {
		t.Errorf("Images = %#v, want %#v", recipe.Images, want)
	}
}

func TestRecipe_TimingsAndCounts(t *testing.T) {
	cand := &extract.Candidate{
		Title:    "Brot",
		PrepTime: "PT30M",
		CookTime: "PT1H",
		RestTime: "45",
		Yield:    "4 Portionen",
		Calories: "389 kcal",
	}
	recipe, err := Recipe(cand, "https://example.com/brot")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	assertIntPtr(t, "PrepTimeMinutes", recipe.PrepTimeMinutes, 30)
	assertIntPtr(t, "CookTimeMinutes", recipe.CookTimeMinutes, 60)
	assertIntPtr(t, "RestTimeMinutes", recipe.RestTimeMinutes, 45)
	assertIntPtr(t, "Servings", recipe.Servings, 4)
	assertIntPtr(t, "Calories", recipe.Calories, 389)
}

func TestRecipe_TotalTimeFillsMissingCookTime(t *testing.T) {
	cand := &extract.Candidate{
		Title:     "Auflauf",
		PrepTime:  "PT20M",
		TotalTime: "PT1H",
	}
	recipe, err := Recipe(cand, "https://example.com/auflauf")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	assertIntPtr(t, "CookTimeMinutes", recipe.CookTimeMinutes, 40)

	// A stated cookTime always wins over the derived value.
	cand.CookTime = "PT50M"
	recipe, _ = Recipe(cand, "https://example.com/auflauf")
	assertIntPtr(t, "CookTimeMinutes", recipe.CookTimeMinutes, 50)
}

func TestRecipe_UnparsableTimingAbsent(t *testing.T) {
	cand := &extract.Candidate{Title: "Suppe", PrepTime: "about an hour"}
	recipe, err := Recipe(cand, "https://example.com/suppe")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	if recipe.PrepTimeMinutes != nil {
		t.Errorf("PrepTimeMinutes = %d, want nil", *recipe.PrepTimeMinutes)
	}
}

func TestRecipe_ExplicitStepListPassesThrough(t *testing.T) {
	cand := &extract.Candidate{
		Title:        "Pfannkuchen",
		Instructions: []string{"Teig anrühren.", "  ", "Portionsweise ausbacken."},
	}
	recipe, err := Recipe(cand, "https://example.com/pfannkuchen")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	want := []string{"Teig anrühren.", "Portionsweise ausbacken."}
	if !reflect.DeepEqual(recipe.Instructions, want) {
		t.Errorf("Instructions = %#v, want %#v", recipe.Instructions, want)
	}
}

func TestRecipe_Deterministic(t *testing.T) {
	cand := &extract.Candidate{
		Title:           "Gulasch",
		Ingredients:     []extract.IngredientLine{{Text: "500 g Rindfleisch"}, {Text: "2 Zwiebeln"}},
		InstructionText: "Fleisch anbraten. Zwiebeln zugeben. Schmoren lassen.",
		Images:          []string{"/img/gulasch.jpg"},
		PrepTime:        "PT20M",
	}
	first, err := Recipe(cand, "https://example.com/gulasch")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	second, err := Recipe(cand, "https://example.com/gulasch")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same candidate produced different recipes:\n%#v\n%#v", first, second)
	}
}

func assertIntPtr(t *testing.T, field string, got *int, want int) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %d", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %d, want %d", field, *got, want)
	}
}
