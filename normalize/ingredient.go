package normalize

import (
	"regexp"
	"strings"

	"github.com/use-agent/ladle/extract"
	"github.com/use-agent/ladle/models"
)

// unitVocab is the known unit vocabulary, lowercased and without trailing
// dots. Mostly German (the catalog's target sites) plus the common imperial
// units.
var unitVocab = map[string]struct{}{
	"g": {}, "kg": {}, "mg": {},
	"ml": {}, "cl": {}, "dl": {}, "l": {},
	"el": {}, "tl": {}, "msp": {},
	"stück": {}, "stk": {},
	"prise": {}, "prisen": {},
	"bund": {},
	"dose": {}, "dosen": {},
	"packung": {}, "päckchen": {}, "pck": {},
	"becher": {},
	"tasse": {}, "tassen": {},
	"glas": {},
	"zehe": {}, "zehen": {},
	"scheibe": {}, "scheiben": {},
	"blatt": {}, "blätter": {},
	"tropfen": {},
	"würfel": {},
	"cup": {}, "cups": {},
	"tbsp": {}, "tsp": {},
	"oz": {}, "lb": {},
}

// amountToken matches a leading quantity: decimals with dot or comma,
// fractions, compact mixed numbers ("1½"), unicode fraction glyphs, and
// ranges ("1-2").
var amountToken = regexp.MustCompile(`^(?:\d+(?:[.,]\d+)?(?:-\d+(?:[.,]\d+)?)?|\d+/\d+|\d*[½⅓⅔¼¾⅛⅜⅝⅞])$`)

// fractionToken matches the fraction part of a spaced mixed number ("1 1/2").
var fractionToken = regexp.MustCompile(`^(?:\d+/\d+|[½⅓⅔¼¾⅛⅜⅝⅞])$`)

// SplitIngredient splits a free-text ingredient line ("200 g Mehl") into its
// amount, unit and name parts.
//
// The leading token is taken as the amount when it reads as a quantity; the
// following token is taken as the unit when it belongs to the known unit
// vocabulary. A line without a leading quantity stays intact as the name —
// "Salz nach Geschmack" has neither amount nor unit.
func SplitIngredient(line extract.IngredientLine) models.Ingredient {
	ing := models.Ingredient{Name: strings.TrimSpace(line.Text)}
	if group := strings.TrimSpace(line.Group); group != "" {
		ing.GroupLabel = &group
	}

	tokens := strings.Fields(line.Text)
	if len(tokens) == 0 || !amountToken.MatchString(tokens[0]) {
		return ing
	}

	amount := tokens[0]
	rest := tokens[1:]

	// "1 1/2 EL" — the fraction belongs to the amount.
	if len(rest) > 0 && fractionToken.MatchString(rest[0]) {
		amount += " " + rest[0]
		rest = rest[1:]
	}
	ing.Amount = &amount

	if len(rest) > 0 {
		if _, known := unitVocab[strings.ToLower(strings.TrimRight(rest[0], "."))]; known {
			unit := strings.TrimRight(rest[0], ".")
			rest = rest[1:]
			if len(rest) == 0 {
				// "2 EL" with nothing after it: the token reads better as
				// the name than as a unit of nothing.
				ing.Name = unit
				return ing
			}
			ing.Unit = &unit
		}
	}

	ing.Name = strings.Join(rest, " ")
	if ing.Name == "" {
		// Amount-only lines ("2") stay as they were written.
		ing.Name = strings.TrimSpace(line.Text)
		ing.Amount = nil
	}
	return ing
}
