package pipeline

import "reiswerk/internal"

// Assemble orders a flat item list into one chronological timeline:
// outbound flights, accommodations in destination order, car rentals,
// transfers, activities, return flights. SortOrder is reassigned 0..N-1.
func Assemble(items []internal.Item, destinations []internal.Destination) []internal.Item {
	var flights, hotels, cruises, carRentals, transfers, activities []internal.Item
	for _, item := range items {
		switch item.Type {
		case internal.TypeFlight:
			flights = append(flights, item)
		case internal.TypeHotel:
			hotels = append(hotels, item)
		case internal.TypeCruise:
			cruises = append(cruises, item)
		case internal.TypeCarRental:
			carRentals = append(carRentals, item)
		case internal.TypeTransfer:
			transfers = append(transfers, item)
		case internal.TypeActivity:
			activities = append(activities, item)
		}
	}

	names := make([]string, len(destinations))
	for i, d := range destinations {
		names[i] = d.Name
	}

	hotelDest := make([]int, len(hotels))
	for i, h := range hotels {
		hotelDest[i] = MatchDestination(h.Location, names)
	}
	cruiseDest := make([]int, len(cruises))
	for i, c := range cruises {
		cruiseDest[i] = MatchDestination(c.Location, names)
	}

	// Walk destinations in declared order; hotels precede cruises at the same
	// stop (check-in before embarkation). The used-set guards against an item
	// being appended twice on an ambiguous match.
	used := map[string]struct{}{}
	accommodations := make([]internal.Item, 0, len(hotels)+len(cruises))
	appendOnce := func(item internal.Item) {
		if _, ok := used[item.ID]; ok {
			return
		}
		used[item.ID] = struct{}{}
		accommodations = append(accommodations, item)
	}

	for d := range destinations {
		for i, h := range hotels {
			if hotelDest[i] == d {
				appendOnce(h)
			}
		}
		for i, c := range cruises {
			if cruiseDest[i] == d {
				appendOnce(c)
			}
		}
	}

	// Unmatched accommodations go at the end in original order, never dropped.
	for _, h := range hotels {
		appendOnce(h)
	}
	for _, c := range cruises {
		appendOnce(c)
	}

	// Midpoint split: first half outbound, second half return. Assumes a
	// simple round trip; multi-leg and open-jaw itineraries are not handled
	// specially.
	half := (len(flights) + 1) / 2
	outbound := flights[:half]
	returnFlights := flights[half:]

	ordered := make([]internal.Item, 0, len(items))
	ordered = append(ordered, outbound...)
	ordered = append(ordered, accommodations...)
	ordered = append(ordered, carRentals...)
	ordered = append(ordered, transfers...)
	ordered = append(ordered, activities...)
	ordered = append(ordered, returnFlights...)

	for i := range ordered {
		ordered[i].SortOrder = i
	}
	return ordered
}
