package models

import "time"

// Recipe is the canonical record produced by a successful import.
//
// Only Title and SourceURL are guaranteed non-empty; every other field is
// best-effort. Optional scalar fields are pointers so that "missing" stays
// distinguishable from a legitimate zero.
type Recipe struct {
	// ID is assigned by the API layer at the persistence boundary,
	// never by the extraction pipeline.
	ID string `json:"id,omitempty"`

	// Title is the recipe name. Always non-empty.
	Title string `json:"title"`

	// Description is a short blurb shown under the title, when the page
	// provides one (meta description, Open Graph, or structured data).
	Description string `json:"description,omitempty"`

	// Images holds absolute image URLs in source order. May be empty.
	Images []string `json:"images"`

	// Categories is always empty after import; the user assigns labels later.
	Categories []string `json:"categories"`

	// Ingredients in source order. Order is meaningful and preserved.
	Ingredients []Ingredient `json:"ingredients"`

	// Instructions holds the preparation steps in order.
	Instructions []string `json:"instructions"`

	// Timings in minutes. Nil when the source does not state them.
	PrepTimeMinutes *int `json:"prep_time_minutes,omitempty"`
	RestTimeMinutes *int `json:"rest_time_minutes,omitempty"`
	CookTimeMinutes *int `json:"cook_time_minutes,omitempty"`

	// Calories per serving, when stated.
	Calories *int `json:"calories,omitempty"`

	// Servings the ingredient amounts refer to, when discoverable.
	Servings *int `json:"servings,omitempty"`

	// SourceURL is the URL the import was requested for. Always set,
	// supports "view original" in the catalog UI.
	SourceURL string `json:"source_url"`

	// CreatedAt is set by the API layer alongside ID.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Ingredient is one line of the ingredient list.
//
// Amount stays a string: sources write "1/2", "0.5" or "1-2", and collapsing
// those to a float would lose the form the cook expects to read.
type Ingredient struct {
	Amount *string `json:"amount,omitempty"`
	Unit   *string `json:"unit,omitempty"`
	Name   string  `json:"name"`

	// GroupLabel is the heading of the ingredient group this line belongs
	// to ("Für den Teig"), when the source structures its list in groups.
	GroupLabel *string `json:"group_label,omitempty"`
}
