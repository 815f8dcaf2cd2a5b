package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"reiswerk/internal"
)

const defaultTravelers = 2

// Import runs the full pipeline over one fetched TC booking payload: build
// destinations and items, assemble the timeline, propagate dates, compose the
// result. Pure and synchronous; data-quality problems degrade to defaults and
// never produce an error. The only error is the contract violation of a nil
// payload.
func Import(p internal.SourcePayload) (internal.ImportResult, error) {
	if p == nil {
		return internal.ImportResult{}, errors.New("nil source payload")
	}

	destinations := buildDestinations(p)
	items := BuildItems(p)
	ordered := Assemble(items, destinations)
	resolved := PropagateDates(ordered, p)

	total := 0.0
	for _, item := range ordered {
		total += item.Price
	}
	if total == 0 {
		// Exact-zero fallback to the trip-level declared price. This
		// conflates "no price data" with a genuinely free trip; upstream
		// behaves the same way.
		total = FirstNumber(p, "pricePerPerson", "totalPrice", "price")
	}

	title := FirstString(p, "title", "name", "tripName")
	if title == "" {
		title = "Reis"
	}

	heroImage := FirstString(p, "heroImage", "image", "mainImage")
	if heroImage == "" {
		for _, d := range destinations {
			if len(d.Images) > 0 {
				heroImage = d.Images[0]
				break
			}
		}
	}

	return internal.ImportResult{
		Title:             title,
		Subtitle:          buildSubtitle(p),
		IntroText:         StripHTML(FirstString(p, "introText", "description", "largeTitle")),
		HeroImage:         heroImage,
		Destinations:      destinations,
		Items:             ordered,
		TotalPrice:        total,
		NumberOfTravelers: travelerCount(p),
		Currency:          FirstString(p, "currency", "currencyCode"),
		DatesResolved:     resolved,
	}, nil
}

func buildDestinations(p internal.SourcePayload) []internal.Destination {
	raws := FirstList(p, "destinations", "locations")
	out := make([]internal.Destination, 0, len(raws))
	for i, raw := range raws {
		out = append(out, internal.Destination{
			Name:        FirstString(raw, "name", "destination", "city"),
			Country:     FirstString(raw, "country", "countryName"),
			Description: StripHTML(FirstString(raw, "description", "info")),
			Highlights:  StringList(raw["highlights"]),
			Images:      StringList(raw["images"]),
			Lat:         FirstNumber(raw, "lat", "latitude"),
			Lng:         FirstNumber(raw, "lng", "lon", "longitude"),
			Order:       i,
		})
	}
	return out
}

// buildSubtitle joins "{N} dagen", "{N} nachten" and the country list with a
// middle dot, skipping empty parts.
func buildSubtitle(p internal.SourcePayload) string {
	parts := make([]string, 0, 3)

	days := int(FirstNumber(p, "numberOfDays", "days", "duration"))
	if days > 0 {
		parts = append(parts, strconv.Itoa(days)+" dagen")
	}

	nights := int(FirstNumber(p, "numberOfNights", "nights"))
	if nights == 0 && days > 1 {
		nights = days - 1
	}
	if nights > 0 {
		parts = append(parts, strconv.Itoa(nights)+" nachten")
	}

	if countries := StringList(p["countries"]); len(countries) > 0 {
		parts = append(parts, strings.Join(countries, ", "))
	}

	return strings.Join(parts, " · ")
}

func travelerCount(p internal.SourcePayload) int {
	switch t := p["travelers"].(type) {
	case []any:
		if len(t) > 0 {
			return len(t)
		}
	case map[string]any:
		if n := int(FirstNumber(t, "adults") + FirstNumber(t, "children")); n > 0 {
			return n
		}
	default:
		if n := int(FirstNumber(p, "travelers", "numberOfTravelers", "adults")); n > 0 {
			return n
		}
	}
	return defaultTravelers
}
