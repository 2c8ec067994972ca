package normalize

import (
	"regexp"
	"strings"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTag detects markup inside an instruction string. Structured-data
// instructions are frequently exported with their original tags intact.
var htmlTag = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// numberedStep matches leading step numbering ("1.", "2)", "Schritt 3:")
// at the start of a line.
var numberedStep = regexp.MustCompile(`(?mi)^(?:schritt\s+)?\d+\s*[.):]\s*`)

// listMarker matches markdown list markers left over from HTML flattening.
var listMarker = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)

// FlattenText strips markup from an instruction string. HTML is converted
// through the markdown converter and the markdown syntax is then removed,
// which handles nested tags and entities far more reliably than regex
// stripping would.
func FlattenText(s string) string {
	s = strings.TrimSpace(s)
	if !htmlTag.MatchString(s) {
		return s
	}

	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		// Keep the raw text rather than dropping the step.
		return s
	}

	md = listMarker.ReplaceAllString(md, "")
	md = strings.ReplaceAll(md, "**", "")
	md = strings.ReplaceAll(md, "\\", "")
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimLeft(line, "# "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SplitSteps segments a single instruction blob into ordered steps. Blank
// lines win as boundaries, then single newlines, then sentence endings.
// Leading step numbering ("1.", "Schritt 2:") is stripped either way, so a
// pre-numbered blob does not come out double-numbered. Sources that already
// provide a step list never pass through here.
func SplitSteps(blob string) []string {
	blob = FlattenText(blob)
	if blob == "" {
		return nil
	}

	var parts []string
	switch {
	case len(splitNonEmpty(blob, "\n\n")) > 1:
		parts = splitNonEmpty(blob, "\n\n")
	case len(splitNonEmpty(blob, "\n")) > 1:
		parts = splitNonEmpty(blob, "\n")
	default:
		parts = splitSentences(blob)
	}

	steps := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(numberedStep.ReplaceAllString(part, ""))
		if part != "" {
			steps = append(steps, part)
		}
	}
	if len(steps) == 0 {
		return nil
	}
	return steps
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// abbreviations that end in a dot mid-sentence and must not cut a step.
var abbreviations = map[string]struct{}{
	"ca": {}, "min": {}, "std": {}, "sek": {},
	"evtl": {}, "ggf": {}, "bzw": {}, "inkl": {},
	"approx": {}, "temp": {}, "no": {},
}

// splitSentences cuts after sentence-ending punctuation followed by
// whitespace and an upper-case or numeric continuation. Decimal points
// survive because no whitespace follows them; common abbreviations
// ("ca. 20 Min.") survive via the abbreviation list.
func splitSentences(s string) []string {
	var steps []string
	runes := []rune(s)
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) {
			continue // no whitespace after the punctuation, or end of text
		}
		if !unicode.IsUpper(runes[j]) && !unicode.IsDigit(runes[j]) {
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes[start:i]) {
			continue
		}
		if step := strings.TrimSpace(string(runes[start : i+1])); step != "" {
			steps = append(steps, step)
		}
		start = j
	}
	if step := strings.TrimSpace(string(runes[start:])); step != "" {
		steps = append(steps, step)
	}
	return steps
}

// isAbbreviation reports whether the word directly before a dot is a known
// abbreviation.
func isAbbreviation(before []rune) bool {
	end := len(before)
	begin := end
	for begin > 0 && unicode.IsLetter(before[begin-1]) {
		begin--
	}
	if begin == end {
		return false
	}
	_, ok := abbreviations[strings.ToLower(string(before[begin:end]))]
	return ok
}
