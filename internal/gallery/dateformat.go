package gallery

import (
	"strings"
	"time"
)

// DisplayDateLayout is the Indonesian numeric day/month/year form.
const DisplayDateLayout = "02/01/2006"

var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatDate renders the date line of a card. Detailed records show their
// period verbatim; gallery records show "start - end", or whichever of the two
// is set. Unparsable dates are shown as stored.
func FormatDate(r Record) string {
	if r.Variant == VariantDetailed && r.Detailed != nil && r.Detailed.Period != "" {
		return r.Detailed.Period
	}
	if r.Variant != VariantGallery || r.Gallery == nil {
		return ""
	}

	start := formatOne(r.Gallery.StartDate)
	end := formatOne(r.Gallery.EndDate)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func formatOne(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return raw
}
