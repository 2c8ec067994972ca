package extract

// builtinRules are the shipped per-site scraping rules, keyed by domain.
// These track each site's current markup and need adjusting when a site
// redesigns; operators can override any entry (or add new domains) through
// the YAML rules file without rebuilding.
var builtinRules = map[string]RuleSet{
	// Classic recipe-card layout, no structured data on older pages.
	"chefkoch.de": {
		Title:        "h1.page-title, article h1",
		Description:  ".recipe-text-teaser",
		Images:       ".recipe-image img, .slideshow img",
		Ingredients:  "table.ingredients td.td-left, table.ingredients td.td-right",
		Instructions: ".rds-recipe-meta + .ds-box, .recipe-preparation",
		Servings:     "input[name=portionen], .recipe-servings input",
		PrepTime:     ".recipe-preptime",
		RestTime:     ".recipe-resttime",
		CookTime:     ".recipe-cooktime",
	},

	// Grouped ingredient lists under h3 headings.
	"einfachbacken.de": {
		Title:            "h1.recipe-title, h1",
		Images:           ".recipe-header img",
		IngredientGroups: ".recipe-ingredients .ingredient-group",
		GroupLabel:       "h3",
		Ingredients:      "li.ingredient",
		Instructions:     ".recipe-steps li",
		Servings:         ".recipe-servings .value",
		PrepTime:         ".recipe-times .prep .value",
		CookTime:         ".recipe-times .bake .value",
	},

	// Step texts live in figure captions next to the step photos.
	"kitchenstories.com": {
		Title:        "h1[data-test-id=recipe-title], h1",
		Images:       ".recipe-hero img",
		Ingredients:  ".ingredients-table tr",
		Instructions: ".step figcaption, .step-description",
		Servings:     ".serving-size span",
	},
}
