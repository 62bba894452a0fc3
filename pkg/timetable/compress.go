package timetable

// Compress removes duplicates and coalesces contiguous runs of the same
// lecture in one left-to-right pass. Each activity is compared only with the
// one before it, so the input must already be time-ordered for runs to
// collapse fully. The input slice is not modified.
func Compress(activities []Activity) []Activity {
	compressed := make([]Activity, 0, len(activities))
	for _, current := range activities {
		if len(compressed) > 0 {
			previous := compressed[len(compressed)-1]
			switch {
			case identical(current, previous):
				compressed = compressed[:len(compressed)-1]
			case current.mergeableAfter(previous):
				current.Start = previous.Start
				compressed = compressed[:len(compressed)-1]
			}
		}
		compressed = append(compressed, current)
	}
	return compressed
}

func identical(a, b Activity) bool {
	return a.Start.Equal(b.Start) &&
		a.End.Equal(b.End) &&
		a.Name == b.Name &&
		a.Href == b.Href &&
		a.Description == b.Description &&
		a.Location == b.Location &&
		a.Term == b.Term
}
