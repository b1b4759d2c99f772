// Package markup turns lightly annotated slide text into plain text plus
// styled ranges.
//
// Three markers are recognized, tried in this order at every position:
//
//	**[[text]]**  bold, accent colored
//	[[text]]      bold, accent colored
//	**text**      bold
//
// A marker without its closer is emitted literally. A **...** span whose
// content contains "[[" anywhere is not a bold span: its opening asterisks
// are emitted as text and scanning continues inside it.
package markup

// Range is a half-open rune interval [Start, End) of Styled.Text.
type Range struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Bold  bool   `json:"bold,omitempty"`
	Color string `json:"color,omitempty"`
}

// Styled is plain text with the style ranges that apply to it, in scan order.
type Styled struct {
	Text   string  `json:"text"`
	Ranges []Range `json:"ranges,omitempty"`
}

// Len returns the length of Text in runes, the unit of Range offsets.
func (s Styled) Len() int { return len([]rune(s.Text)) }

// Slice returns the text covered by r.
func (s Styled) Slice(r Range) string {
	rs := []rune(s.Text)
	if r.Start < 0 || r.End > len(rs) || r.Start > r.End {
		return ""
	}
	return string(rs[r.Start:r.End])
}

var (
	openEmph    = []rune("**[[")
	closeEmph   = []rune("]]**")
	openAccent  = []rune("[[")
	closeAccent = []rune("]]")
	boldMark    = []rune("**")
)

// Parse scans text and returns its plain form with bold/accent ranges.
// accent is the color attached to [[...]] spans.
func Parse(text, accent string) Styled {
	src := []rune(text)
	out := make([]rune, 0, len(src))
	var ranges []Range

	emit := func(content []rune, color string) {
		start := len(out)
		out = append(out, content...)
		ranges = append(ranges, Range{Start: start, End: len(out), Bold: true, Color: color})
	}

	for i := 0; i < len(src); {
		if hasPrefixAt(src, i, openEmph) {
			if end := indexFrom(src, closeEmph, i+len(openEmph)); end >= 0 {
				emit(src[i+len(openEmph):end], accent)
				i = end + len(closeEmph)
				continue
			}
		}
		if hasPrefixAt(src, i, openAccent) {
			if end := indexFrom(src, closeAccent, i+len(openAccent)); end >= 0 {
				emit(src[i+len(openAccent):end], accent)
				i = end + len(closeAccent)
				continue
			}
		}
		if hasPrefixAt(src, i, boldMark) {
			if end := indexFrom(src, boldMark, i+len(boldMark)); end >= 0 {
				content := src[i+len(boldMark) : end]
				if indexFrom(content, openAccent, 0) < 0 {
					emit(content, "")
					i = end + len(boldMark)
				} else {
					out = append(out, boldMark...)
					i += len(boldMark)
				}
				continue
			}
		}
		out = append(out, src[i])
		i++
	}
	return Styled{Text: string(out), Ranges: ranges}
}

// BulletJoiner separates bullet points in JoinBullets.
const BulletJoiner = "\n\n"

// EmptyPlaceholder stands in for an empty bullet list.
const EmptyPlaceholder = "—"

// JoinBullets parses each point and concatenates them with BulletJoiner,
// shifting every range by the point's start offset.
func JoinBullets(points []string, accent string) Styled {
	var (
		text   []rune
		ranges []Range
	)
	joiner := []rune(BulletJoiner)
	for idx, pt := range points {
		parsed := Parse(pt, accent)
		if idx > 0 {
			text = append(text, joiner...)
		}
		start := len(text)
		text = append(text, []rune(parsed.Text)...)
		for _, r := range parsed.Ranges {
			r.Start += start
			r.End += start
			ranges = append(ranges, r)
		}
	}
	if len(text) == 0 {
		return Styled{Text: EmptyPlaceholder, Ranges: ranges}
	}
	return Styled{Text: string(text), Ranges: ranges}
}

func hasPrefixAt(s []rune, i int, prefix []rune) bool {
	if i+len(prefix) > len(s) {
		return false
	}
	for k, r := range prefix {
		if s[i+k] != r {
			return false
		}
	}
	return true
}

func indexFrom(s, sub []rune, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if hasPrefixAt(s, i, sub) {
			return i
		}
	}
	return -1
}
