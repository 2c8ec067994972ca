package extract

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"github.com/use-agent/ladle/fetcher"
)

// RuleSet describes where a specific site keeps its recipe parts, as CSS
// selectors. Rules are data, not code: supporting a new site is a registry
// entry (or a line in the YAML rules file), never a new code path.
type RuleSet struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Images      string `yaml:"images,omitempty"`

	// IngredientGroups selects the group containers on sites that split
	// their ingredient list ("Für den Teig", "Für die Füllung"). GroupLabel
	// and Ingredients are then evaluated inside each container. When
	// IngredientGroups is empty, Ingredients is evaluated document-wide.
	IngredientGroups string `yaml:"ingredient_groups,omitempty"`
	GroupLabel       string `yaml:"group_label,omitempty"`
	Ingredients      string `yaml:"ingredients"`

	Instructions string `yaml:"instructions"`
	Servings     string `yaml:"servings,omitempty"`
	PrepTime     string `yaml:"prep_time,omitempty"`
	CookTime     string `yaml:"cook_time,omitempty"`
	RestTime     string `yaml:"rest_time,omitempty"`
}

// compiledRules is a RuleSet with its selectors parsed once at registration.
type compiledRules struct {
	title            cascadia.Selector
	description      cascadia.Selector
	images           cascadia.Selector
	ingredientGroups cascadia.Selector
	groupLabel       cascadia.Selector
	ingredients      cascadia.Selector
	instructions     cascadia.Selector
	servings         cascadia.Selector
	prepTime         cascadia.Selector
	cookTime         cascadia.Selector
	restTime         cascadia.Selector
}

// RuleRegistry maps a site's domain to its selector rules. Lookup matches
// registrable-suffix style: "www.chefkoch.de" finds the "chefkoch.de" entry.
type RuleRegistry struct {
	rules map[string]*compiledRules
}

// NewRuleRegistry returns a registry seeded with the built-in rules.
func NewRuleRegistry() *RuleRegistry {
	r := &RuleRegistry{rules: make(map[string]*compiledRules)}
	for domain, rs := range builtinRules {
		// Built-in selectors are maintained alongside this file; a parse
		// failure here is a programming error, surfaced loudly.
		if err := r.Register(domain, rs); err != nil {
			panic(fmt.Sprintf("siterules: builtin rules for %s: %v", domain, err))
		}
	}
	return r
}

// Register compiles and stores rules for a domain, replacing any existing
// entry. The domain is stored lowercased and without a "www." prefix.
func (r *RuleRegistry) Register(domain string, rs RuleSet) error {
	compiled, err := rs.compile()
	if err != nil {
		return fmt.Errorf("siterules: rules for %s: %w", domain, err)
	}
	r.rules[normalizeDomain(domain)] = compiled
	return nil
}

// LoadFile merges rules from a YAML file into the registry. The file maps
// domain to RuleSet; entries override built-ins for the same domain.
func (r *RuleRegistry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("siterules: read %s: %w", path, err)
	}
	var parsed map[string]RuleSet
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("siterules: parse %s: %w", path, err)
	}
	for domain, rs := range parsed {
		if err := r.Register(domain, rs); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of registered domains.
func (r *RuleRegistry) Len() int { return len(r.rules) }

// lookup finds rules for a host, trying the host itself and then each
// parent domain ("rezepte.chefkoch.de" falls back to "chefkoch.de").
func (r *RuleRegistry) lookup(host string) *compiledRules {
	domain := normalizeDomain(host)
	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		if rules, ok := r.rules[strings.Join(labels[i:], ".")]; ok {
			return rules
		}
	}
	return nil
}

func normalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}

func (rs RuleSet) compile() (*compiledRules, error) {
	c := &compiledRules{}
	for _, field := range []struct {
		selector string
		dst      *cascadia.Selector
	}{
		{rs.Title, &c.title},
		{rs.Description, &c.description},
		{rs.Images, &c.images},
		{rs.IngredientGroups, &c.ingredientGroups},
		{rs.GroupLabel, &c.groupLabel},
		{rs.Ingredients, &c.ingredients},
		{rs.Instructions, &c.instructions},
		{rs.Servings, &c.servings},
		{rs.PrepTime, &c.prepTime},
		{rs.CookTime, &c.cookTime},
		{rs.RestTime, &c.restTime},
	} {
		if field.selector == "" {
			continue
		}
		sel, err := cascadia.Compile(field.selector)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", field.selector, err)
		}
		*field.dst = sel
	}
	return c, nil
}

// SiteRulesExtractor scrapes recipe parts with per-domain selector rules.
// It is the last-resort strategy for sites that publish no structured data
// at all.
type SiteRulesExtractor struct {
	Rules *RuleRegistry
}

func (e *SiteRulesExtractor) Name() string { return "siterules" }

func (e *SiteRulesExtractor) Extract(doc *fetcher.Document) (*Candidate, error) {
	parsed, err := url.Parse(doc.FinalURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrNotFound
	}
	rules := e.Rules.lookup(parsed.Host)
	if rules == nil {
		return nil, ErrNotFound
	}

	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err != nil {
		return nil, ErrNotFound
	}

	cand := &Candidate{
		Title:       matchText(root, rules.title),
		Description: matchText(root, rules.description),
		Yield:       matchText(root, rules.servings),
		PrepTime:    matchText(root, rules.prepTime),
		CookTime:    matchText(root, rules.cookTime),
		RestTime:    matchText(root, rules.restTime),
		Extra:       map[string]string{},
	}

	cand.Ingredients = matchIngredients(root, rules)

	cand.Instructions, cand.InstructionText = matchInstructions(root, rules.instructions)

	if rules.images != nil {
		root.FindMatcher(rules.images).Each(func(_ int, s *goquery.Selection) {
			if src := imageSource(s); src != "" {
				cand.Images = append(cand.Images, src)
			}
		})
	}

	if cand.Title == "" && len(cand.Ingredients) == 0 {
		// The site's markup drifted away from the registered selectors.
		return nil, ErrNotFound
	}
	return cand, nil
}

// matchIngredients collects ingredient lines, grouped when the rules select
// group containers.
func matchIngredients(root *goquery.Document, rules *compiledRules) []IngredientLine {
	if rules.ingredients == nil {
		return nil
	}

	var lines []IngredientLine
	appendLines := func(scope *goquery.Selection, group string) {
		scope.FindMatcher(rules.ingredients).Each(func(_ int, s *goquery.Selection) {
			if text := collapseSpace(s.Text()); text != "" {
				lines = append(lines, IngredientLine{Text: text, Group: group})
			}
		})
	}

	if rules.ingredientGroups != nil {
		root.FindMatcher(rules.ingredientGroups).Each(func(_ int, groupSel *goquery.Selection) {
			group := ""
			if rules.groupLabel != nil {
				group = collapseSpace(groupSel.FindMatcher(rules.groupLabel).First().Text())
			}
			appendLines(groupSel, group)
		})
		if len(lines) > 0 {
			return lines
		}
		// Group containers missing: fall back to a flat document-wide match.
	}

	appendLines(root.Selection, "")
	return lines
}

func matchText(root *goquery.Document, sel cascadia.Selector) string {
	if sel == nil {
		return ""
	}
	return collapseSpace(root.FindMatcher(sel).First().Text())
}

// matchInstructions mirrors microdataInstructions: a single matched
// container wrapping list items contributes one step per item, several
// matches contribute one step each, and only a single flat match becomes
// the blob the normalizer segments into steps.
func matchInstructions(root *goquery.Document, sel cascadia.Selector) (steps []string, blob string) {
	if sel == nil {
		return nil, ""
	}
	matches := root.FindMatcher(sel)
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
