package markup

import (
	"regexp"
	"strings"
)

const (
	DefaultMaxText     = 150
	DefaultMaxPerSlide = 4
	DefaultMaxBullets  = 6
	ellipsis           = "..."
)

var (
	agendaTitle    = regexp.MustCompile(`(?i)(agenda|アジェンダ|目次|本日お伝えすること)`)
	leadingOrdinal = regexp.MustCompile(`^\s*\d+[.\s]*`)
)

// Truncate shortens text to at most limit runes, ending in "...".
// limit <= 0 uses DefaultMaxText.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxText
	}
	rs := []rune(text)
	if len(rs) <= limit {
		return text
	}
	cut := limit - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	return string(rs[:cut]) + ellipsis
}

// Chunk splits items into groups of at most size (DefaultMaxPerSlide when
// size <= 0). A list that already fits is returned as a single group.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultMaxPerSlide
	}
	if len(items) <= size {
		return [][]T{items}
	}
	groups := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		groups = append(groups, items[i:min(i+size, len(items))])
	}
	return groups
}

// StripOrdinal removes leading numbering such as "1. " or "02 ".
func StripOrdinal(s string) string {
	return leadingOrdinal.ReplaceAllString(s, "")
}

// IsAgendaTitle reports whether a slide title names an agenda.
func IsAgendaTitle(title string) bool {
	return agendaTitle.MatchString(title)
}

// SingleLine collapses line breaks into spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
