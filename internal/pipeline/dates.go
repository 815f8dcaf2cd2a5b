package pipeline

import (
	"time"

	"reiswerk/internal"
)

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// PropagateDates fills in item dates on the assembled timeline. A trip start
// date is resolved from the items and the raw payload; accommodations then get
// a gapless check-in/check-out sequence driven by their night counts, and car
// rentals without explicit dates get a span inferred from the accommodation
// walk. Returns false when no start date could be resolved, in which case
// items keep the dates the builders set. Never an error: a dateless import is
// degraded, not failed.
func PropagateDates(items []internal.Item, p internal.SourcePayload) bool {
	start, ok := resolveStartDate(items, p)
	if !ok {
		return false
	}

	cursor := start
	lastCruise := -1
	accIdx := make([]int, 0, len(items))
	for i := range items {
		if items[i].Type != internal.TypeHotel && items[i].Type != internal.TypeCruise {
			continue
		}
		nights := items[i].Nights
		if nights <= 0 {
			// a stay is never zero-length in the computed timeline
			nights = 1
		}
		items[i].DateStart = cursor.Format(dateLayout)
		end := cursor.AddDate(0, 0, nights)
		items[i].DateEnd = end.Format(dateLayout)
		cursor = end

		if items[i].Type == internal.TypeCruise {
			lastCruise = len(accIdx)
		}
		accIdx = append(accIdx, i)
	}

	carStart := start.Format(dateLayout)
	if lastCruise >= 0 {
		if end := items[accIdx[lastCruise]].DateEnd; end != "" {
			carStart = end
		} else if lastCruise+1 < len(accIdx) {
			if next := items[accIdx[lastCruise+1]].DateStart; next != "" {
				carStart = next
			}
		}
	}
	carEnd := cursor.Format(dateLayout)
	if len(accIdx) > 0 {
		if end := items[accIdx[len(accIdx)-1]].DateEnd; end != "" {
			carEnd = end
		}
	}

	for i := range items {
		if items[i].Type != internal.TypeCarRental {
			continue
		}
		// explicit dates from the source are never overwritten
		if items[i].DateStart != "" {
			continue
		}
		items[i].DateStart = carStart
		if items[i].DateEnd == "" {
			items[i].DateEnd = carEnd
		}
	}

	return true
}

// resolveStartDate tries, in priority order: the first flight item's start
// date, the departure date of the first raw transport record, the trip-level
// declared departure date, then any item bearing a parseable start date.
func resolveStartDate(items []internal.Item, p internal.SourcePayload) (time.Time, bool) {
	for _, item := range items {
		if item.Type != internal.TypeFlight {
			continue
		}
		if t, ok := parseDate(item.DateStart); ok {
			return t, true
		}
		break
	}

	for _, keys := range [][]string{flightKeys, transferKeys} {
		records := FirstList(p, keys...)
		if len(records) == 0 {
			continue
		}
		raw := FirstString(records[0], "departureDate", "startDate", "dateFrom", "date", "pickupDate")
		if t, ok := parseDate(raw); ok {
			return t, true
		}
	}

	if t, ok := parseDate(FirstString(p, "departureDate", "startDate", "dateFrom", "tripStartDate")); ok {
		return t, true
	}

	for _, item := range items {
		if t, ok := parseDate(item.DateStart); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeDate reduces any recognized source date format to YYYY-MM-DD,
// empty when unparseable.
func normalizeDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format(dateLayout)
	}
	return ""
}
