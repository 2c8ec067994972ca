package normalize

import (
	"testing"

	"github.com/use-agent/ladle/extract"
)

func TestSplitIngredient_AmountUnitName(t *testing.T) {
	tests := []struct {
		line   string
		amount string
		unit   string
		name   string
	}{
		{"250 g Zucker", "250", "g", "Zucker"},
		{"200 g Mehl", "200", "g", "Mehl"},
		{"2 EL Olivenöl", "2", "EL", "Olivenöl"},
		{"1 TL Backpulver", "1", "TL", "Backpulver"},
		{"0,5 l Milch", "0,5", "l", "Milch"},
		{"1.5 kg Kartoffeln", "1.5", "kg", "Kartoffeln"},
		{"1/2 Tasse Sahne", "1/2", "Tasse", "Sahne"},
		{"1 1/2 TL Salz", "1 1/2", "TL", "Salz"},
		{"3 Stück Eier", "3", "Stück", "Eier"},
		{"1 Prise Muskat", "1", "Prise", "Muskat"},
		{"1-2 EL Zitronensaft", "1-2", "EL", "Zitronensaft"},
	}

	for _, tt := range tests {
		got := SplitIngredient(extract.IngredientLine{Text: tt.line})
		if got.Amount == nil || *got.Amount != tt.amount {
			t.Errorf("SplitIngredient(%q).Amount = %v, want %q", tt.line, got.Amount, tt.amount)
		}
		if got.Unit == nil || *got.Unit != tt.unit {
			t.Errorf("SplitIngredient(%q).Unit = %v, want %q", tt.line, got.Unit, tt.unit)
		}
		if got.Name != tt.name {
			t.Errorf("SplitIngredient(%q).Name = %q, want %q", tt.line, got.Name, tt.name)
		}
	}
}

func TestSplitIngredient_AmountWithoutUnit(t *testing.T) {
	got := SplitIngredient(extract.IngredientLine{Text: "3 Eier"})
	if got.Amount == nil || *got.Amount != "3" {
		t.Errorf("Amount = %v, want \"3\"", got.Amount)
	}
	if got.Unit != nil {
		t.Errorf("Unit = %q, want nil", *got.Unit)
	}
	if got.Name != "Eier" {
		t.Errorf("Name = %q, want \"Eier\"", got.Name)
	}
}

func TestSplitIngredient_NoLeadingQuantity(t *testing.T) {
	for _, line := range []string{
		"Salz nach Geschmack",
		"etwas Mehl zum Bestäuben",
		"Butter für die Form",
	} {
		got := SplitIngredient(extract.IngredientLine{Text: line})
		if got.Amount != nil {
			t.Errorf("SplitIngredient(%q).Amount = %q, want nil", line, *got.Amount)
		}
		if got.Unit != nil {
			t.Errorf("SplitIngredient(%q).Unit = %q, want nil", line, *got.Unit)
		}
		if got.Name != line {
			t.Errorf("SplitIngredient(%q).Name = %q, want the whole line", line, got.Name)
		}
	}
}

func TestSplitIngredient_UnicodeFraction(t *testing.T) {
	got := SplitIngredient(extract.IngredientLine{Text: "½ Zitrone"})
	if got.Amount == nil || *got.Amount != "½" {
		t.Errorf("Amount = %v, want \"½\"", got.Amount)
	}
	if got.Name != "Zitrone" {
		t.Errorf("Name = %q, want \"Zitrone\"", got.Name)
	}
}

func TestSplitIngredient_GroupLabel(t *testing.T) {
	got := SplitIngredient(extract.IngredientLine{Text: "100 g Butter", Group: "Für den Teig"})
	if got.GroupLabel == nil || *got.GroupLabel != "Für den Teig" {
		t.Errorf("GroupLabel = %v, want \"Für den Teig\"", got.GroupLabel)
	}
}

func TestSplitIngredient_UnitOnlyTail(t *testing.T) {
	// "2 EL" with nothing after the unit keeps EL readable as the name.
	got := SplitIngredient(extract.IngredientLine{Text: "2 EL"})
	if got.Unit != nil {
		t.Errorf("Unit = %q, want nil", *got.Unit)
	}
	if got.Name != "EL" {
		t.Errorf("Name = %q, want \"EL\"", got.Name)
	}
}
