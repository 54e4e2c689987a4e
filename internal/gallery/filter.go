package gallery

// Filter keeps the records whose category equals category exactly, in their
// original order. AllCategory returns records unchanged.
func Filter(records []Record, category string) []Record {
	if category == AllCategory {
		return records
	}
	out := make([]Record, 0)
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
