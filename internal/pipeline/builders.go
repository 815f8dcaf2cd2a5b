package pipeline

import (
	"sort"

	"github.com/google/uuid"

	"reiswerk/internal"
)

// Item builders: one per TC service category. Builders map raw records to the
// internal item shape, assign fresh IDs and leave SortOrder at 0 — the real
// position is assigned by the timeline assembler.

const maxHotelImages = 10

var (
	flightKeys    = []string{"flights", "transports"}
	hotelKeys     = []string{"hotels", "hotelservices", "accommodations"}
	transferKeys  = []string{"transfers", "transferservices"}
	carRentalKeys = []string{"carRentals", "cars", "carservices"}
	cruiseKeys    = []string{"cruises", "cruiseservices"}
	activityKeys  = []string{"activities", "tickets", "excursions"}
)

func BuildItems(p internal.SourcePayload) []internal.Item {
	items := make([]internal.Item, 0)
	for _, raw := range FirstList(p, flightKeys...) {
		items = append(items, buildFlight(raw))
	}
	for _, raw := range FirstList(p, hotelKeys...) {
		items = append(items, buildHotel(raw))
	}
	for _, raw := range FirstList(p, transferKeys...) {
		items = append(items, buildTransfer(raw))
	}
	for _, raw := range FirstList(p, carRentalKeys...) {
		items = append(items, buildCarRental(raw))
	}
	for _, raw := range FirstList(p, cruiseKeys...) {
		items = append(items, buildCruise(raw))
	}
	for _, raw := range FirstList(p, activityKeys...) {
		items = append(items, buildActivity(raw))
	}
	return items
}

func buildFlight(raw map[string]any) internal.Item {
	departure := FirstString(raw, "departureAirport", "origin", "from", "departure")
	arrival := FirstString(raw, "arrivalAirport", "destination", "to", "arrival")
	airline := FirstString(raw, "airline", "company", "marketingAirline", "operator")

	title := "Vlucht"
	if departure != "" && arrival != "" {
		title = departure + " → " + arrival
	} else if airline != "" {
		title = "Vlucht " + airline
	}

	return internal.Item{
		ID:               uuid.NewString(),
		Type:             internal.TypeFlight,
		Title:            title,
		Price:            ExtractPrice(raw),
		DateStart:        normalizeDate(FirstString(raw, "departureDate", "startDate", "dateFrom", "date")),
		DateEnd:          normalizeDate(FirstString(raw, "arrivalDate", "endDate", "dateTo")),
		DepartureAirport: departure,
		ArrivalAirport:   arrival,
		FlightNumber:     FirstString(raw, "flightNumber", "number"),
		Airline:          airline,
	}
}

func buildHotel(raw map[string]any) internal.Item {
	// TC sends both pre-processed "formatted" fields and the raw upstream
	// ones; the formatted variant wins when present.
	name := FirstString(raw, "formattedName", "name", "hotelName", "title")
	title := name
	if title == "" {
		title = "Hotel"
	}

	return internal.Item{
		ID:          uuid.NewString(),
		Type:        internal.TypeHotel,
		Title:       title,
		Price:       ExtractPrice(raw),
		DateStart:   normalizeDate(FirstString(raw, "checkIn", "startDate", "dateFrom")),
		DateEnd:     normalizeDate(FirstString(raw, "checkOut", "endDate", "dateTo")),
		Description: StripHTML(FirstString(raw, "formattedDescription", "description", "info")),
		Location:    FirstString(raw, "formattedLocation", "location", "destination", "city", "locationName"),
		Nights:      int(FirstNumber(raw, "nights", "numberOfNights", "nightsCount")),
		StarRating:  ParseStars(firstValue(raw, "stars", "starRating", "category")),
		BoardType:   FirstString(raw, "formattedBoard", "board", "boardType", "mealPlan"),
		RoomType:    FirstString(raw, "formattedRoom", "room", "roomType"),
		Images:      imageList(raw),
		Facilities:  facilityList(raw["facilities"]),
	}
}

func buildTransfer(raw map[string]any) internal.Item {
	pickup := FirstString(raw, "from", "pickup", "origin", "pickupLocation")
	dropoff := FirstString(raw, "to", "dropoff", "destination", "dropoffLocation")

	title := "Transfer"
	if pickup != "" && dropoff != "" {
		title = pickup + " → " + dropoff
	}

	return internal.Item{
		ID:        uuid.NewString(),
		Type:      internal.TypeTransfer,
		Title:     title,
		Price:     ExtractPrice(raw),
		DateStart: normalizeDate(FirstString(raw, "date", "pickupDate", "startDate", "dateFrom")),
		Pickup:    pickup,
		Dropoff:   dropoff,
	}
}

func buildCarRental(raw map[string]any) internal.Item {
	vendor := FirstString(raw, "vendor", "company", "supplier", "rentalCompany")

	title := "Huurauto"
	if vendor != "" {
		title = "Huurauto " + vendor
	}

	return internal.Item{
		ID:        uuid.NewString(),
		Type:      internal.TypeCarRental,
		Title:     title,
		Price:     ExtractPrice(raw),
		DateStart: normalizeDate(FirstString(raw, "pickupDate", "startDate", "dateFrom")),
		DateEnd:   normalizeDate(FirstString(raw, "dropoffDate", "endDate", "dateTo")),
		Pickup:    FirstString(raw, "pickupLocation", "pickup", "from"),
		Dropoff:   FirstString(raw, "dropoffLocation", "dropoff", "to"),
		Vendor:    vendor,
	}
}

func buildCruise(raw map[string]any) internal.Item {
	name := FirstString(raw, "formattedName", "name", "cruiseName", "ship")
	title := name
	if title == "" {
		title = "Cruise"
	}

	return internal.Item{
		ID:          uuid.NewString(),
		Type:        internal.TypeCruise,
		Title:       title,
		Price:       ExtractPrice(raw),
		DateStart:   normalizeDate(FirstString(raw, "departureDate", "startDate", "dateFrom", "checkIn")),
		DateEnd:     normalizeDate(FirstString(raw, "arrivalDate", "endDate", "dateTo", "checkOut")),
		Description: StripHTML(FirstString(raw, "formattedDescription", "description")),
		Location:    FirstString(raw, "departurePort", "embarkPort", "port", "departureHarbour", "location"),
		Nights:      int(FirstNumber(raw, "nights", "numberOfNights", "duration")),
	}
}

func buildActivity(raw map[string]any) internal.Item {
	name := FirstString(raw, "name", "title", "activityName")
	title := name
	if title == "" {
		title = "Excursie"
	}

	return internal.Item{
		ID:          uuid.NewString(),
		Type:        internal.TypeActivity,
		Title:       title,
		Price:       ExtractPrice(raw),
		DateStart:   normalizeDate(FirstString(raw, "date", "startDate", "dateFrom")),
		Description: StripHTML(FirstString(raw, "description", "info")),
		Location:    FirstString(raw, "location", "destination", "city"),
	}
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if raw[key] != nil {
			return raw[key]
		}
	}
	return nil
}

func imageList(raw map[string]any) []string {
	for _, key := range []string{"images", "imageUrls", "photos"} {
		arr, ok := raw[key].([]any)
		if !ok {
			continue
		}
		seen := map[string]struct{}{}
		out := make([]string, 0, len(arr))
		for _, el := range arr {
			s := ""
			if m, ok := el.(map[string]any); ok {
				s = FirstString(m, "url", "src", "image")
			} else {
				s = SafeStr(el)
			}
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
			if len(out) == maxHotelImages {
				break
			}
		}
		return out
	}
	return nil
}

// facilityList accepts the two facility shapes TC uses: a plain array of
// names, or an object whose keys carry boolean flags or nested arrays.
func facilityList(v any) []string {
	switch t := v.(type) {
	case []any:
		seen := map[string]struct{}{}
		out := make([]string, 0, len(t))
		for _, el := range t {
			s := SafeStr(el)
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
		return out
	case map[string]any:
		seen := map[string]struct{}{}
		out := make([]string, 0, len(t))
		add := func(s string) {
			if s == "" {
				return
			}
			if _, dup := seen[s]; dup {
				return
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
		for key, val := range t {
			switch inner := val.(type) {
			case bool:
				if inner {
					add(key)
				}
			case []any:
				for _, el := range inner {
					add(SafeStr(el))
				}
			case string:
				add(SafeStr(inner))
			}
		}
		sort.Strings(out)
		return out
	default:
		return nil
	}
}
