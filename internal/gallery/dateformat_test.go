package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func galleryRecord(start, end string) Record {
	return FromGallery(GalleryProject{ID: "g", StartDate: start, EndDate: end})
}

func TestFormatDateDetailedPeriodVerbatim(t *testing.T) {
	r := FromDetailed(DetailedProject{ID: "d", Period: "(2022-2024)", Slug: "s"})
	assert.Equal(t, "(2022-2024)", FormatDate(r))
}

func TestFormatDateDetailedWithoutPeriod(t *testing.T) {
	r := FromDetailed(DetailedProject{ID: "d", Slug: "s"})
	assert.Equal(t, "", FormatDate(r))
}

func TestFormatDateGallery(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       string
	}{
		{"start only", "2023-01-10", "", "10/01/2023"},
		{"end only", "", "2024-12-31", "31/12/2024"},
		{"both", "2025-04-03", "2025-11-20", "03/04/2025 - 20/11/2025"},
		{"neither", "", "", ""},
		{"timestamp", "2023-01-10T00:00:00Z", "", "10/01/2023"},
		{"blank is absent", "   ", "2023-01-10", "10/01/2023"},
		{"unparsable start", "Q3 2021", "2022-02-01", "Q3 2021 - 01/02/2022"},
		{"unparsable end", "2021-07-01", "soon", "01/07/2021 - soon"},
		{"impossible date", "2023-02-30", "", "2023-02-30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDate(galleryRecord(tc.start, tc.end)))
		})
	}
}

func TestFormatDateNeverPanics(t *testing.T) {
	inputs := []string{"", "0000-00-00", "\x00", "2023-13-45", "99999-01-01", "💥"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { FormatDate(galleryRecord(in, in)) })
	}
	assert.NotPanics(t, func() { FormatDate(Record{}) })
	assert.NotPanics(t, func() { FormatDate(Record{Variant: VariantGallery}) })
}
