// Package search holds the single substring-matching rule shared by the
// SQL matcher and the highlight renderer, so what the database matches is
// exactly what gets highlighted.
package search

import (
	"regexp"
	"strings"
)

// EscapeLike neutralizes LIKE metacharacters so a term is matched literally.
// The escape character itself must go first.
func EscapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// Pattern wraps an escaped term for substring containment.
func Pattern(term string) string {
	return "%" + EscapeLike(term) + "%"
}

// Active reports whether a term constrains the query at all.
// Whitespace-only input disables the search clause, it does not match nothing.
func Active(term string) bool {
	return strings.TrimSpace(term) != ""
}

// Span is a piece of a rendered field value. Match spans are the
// case-insensitive occurrences of the search term.
type Span struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlight splits value into literal and matched spans for every
// case-insensitive occurrence of term. An inactive term yields the whole
// value as a single literal span.
func Highlight(value, term string) []Span {
	if !Active(term) {
		return []Span{{Text: value}}
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(strings.TrimSpace(term)))

	var spans []Span
	last := 0
	for _, loc := range re.FindAllStringIndex(value, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: value[last:loc[0]]})
		}
		spans = append(spans, Span{Text: value[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(value) {
		spans = append(spans, Span{Text: value[last:]})
	}
	if spans == nil {
		spans = []Span{{Text: value}}
	}
	return spans
}
