package markup

import "regexp"

// Applied in order; each keeps only the captured content.
var noteMarkers = []*regexp.Regexp{
	regexp.MustCompile(`\*\*([^*]+)\*\*`),
	regexp.MustCompile(`\[\[([^\]]+)\]\]`),
	regexp.MustCompile(`\*([^*]+)\*`),
	regexp.MustCompile(`_([^_]+)_`),
	regexp.MustCompile(`~~([^~]+)~~`),
	regexp.MustCompile("`([^`]+)`"),
}

// SanitizeNotes strips emphasis markers from speaker notes.
func SanitizeNotes(text string) string {
	for _, re := range noteMarkers {
		text = re.ReplaceAllString(text, "$1")
	}
	return text
}
