package gallery

// Normalize tags every source record and concatenates them, gallery records
// first, each source keeping its input order.
func Normalize(galleryProjects []GalleryProject, detailedProjects []DetailedProject) []Record {
	out := make([]Record, 0, len(galleryProjects)+len(detailedProjects))
	for _, p := range galleryProjects {
		out = append(out, FromGallery(p))
	}
	for _, p := range detailedProjects {
		out = append(out, FromDetailed(p))
	}
	return out
}

// Categories lists the distinct non-empty categories in order of first
// appearance.
func Categories(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}
