package deck

import (
	"time"

	"github.com/gosimple/slug"

	"github.com/ByLCY/slidegen/markup"
)

// FileName derives an output file name (without extension) from a deck
// title, optionally suffixed with the date as YYYY.MM.DD.
func FileName(title string, when time.Time, withDate bool) string {
	name := slug.Make(markup.SingleLine(title))
	if name == "" {
		name = slug.Make(DefaultTitle)
	}
	if withDate {
		name += "-" + when.Format("2006.01.02")
	}
	return name
}
