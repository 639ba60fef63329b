package content

// Normalize returns records newest first. The backend returns creation order,
// so this is a plain reversal into a fresh slice; the input is not touched.
func Normalize(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	return out
}
