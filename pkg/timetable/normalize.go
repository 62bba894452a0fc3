package timetable

import "context"

// Normalize fills in description, location and term for every activity from
// its detail page, then compresses each day now that locations are known.
// Location and term stay empty when no detail record covers the activity's
// exact time window.
func Normalize(ctx context.Context, cache *DetailCache, days []Day) error {
	for dayIndex := range days {
		day := &days[dayIndex]
		for activityIndex := range day.Activities {
			activity := &day.Activities[activityIndex]
			info, lookupError := cache.Lookup(ctx, activity.Href)
			if lookupError != nil {
				return lookupError
			}
			activity.Description = info.Description
			if record, matched := info.Match(activity.Start, activity.End); matched {
				activity.Location = record.Room
				activity.Term = record.Term
			}
		}
		day.Compress()
	}
	return nil
}

// Hrefs lists each distinct detail link in first-reference order.
func Hrefs(days []Day) []string {
	seen := map[string]struct{}{}
	var hrefs []string
	for _, day := range days {
		for _, activity := range day.Activities {
			if _, duplicate := seen[activity.Href]; duplicate {
				continue
			}
			seen[activity.Href] = struct{}{}
			hrefs = append(hrefs, activity.Href)
		}
	}
	return hrefs
}
