package pipeline

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reiswerk/internal"
)

func mkItem(id string, typ internal.ItemType, location string) internal.Item {
	return internal.Item{ID: id, Type: typ, Title: id, Location: location}
}

func mkDests(names ...string) []internal.Destination {
	out := make([]internal.Destination, len(names))
	for i, n := range names {
		out[i] = internal.Destination{Name: n, Order: i}
	}
	return out
}

func titles(items []internal.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestAssembleFullOrder(t *testing.T) {
	items := []internal.Item{
		mkItem("f1", internal.TypeFlight, ""),
		mkItem("f2", internal.TypeFlight, ""),
		mkItem("f3", internal.TypeFlight, ""),
		mkItem("f4", internal.TypeFlight, ""),
		mkItem("h-rome", internal.TypeHotel, "Rome"),
		mkItem("h-paris", internal.TypeHotel, "Paris, France"),
		mkItem("cruise", internal.TypeCruise, "Rome"),
		mkItem("car", internal.TypeCarRental, ""),
		mkItem("transfer", internal.TypeTransfer, ""),
		mkItem("activity", internal.TypeActivity, ""),
	}

	ordered := Assemble(items, mkDests("Paris", "Rome"))

	// outbound flights, accommodations in destination order (hotel before
	// cruise at the same stop), car rentals, transfers, activities, return.
	want := []string{"f1", "f2", "h-paris", "h-rome", "cruise", "car", "transfer", "activity", "f3", "f4"}
	if diff := cmp.Diff(want, titles(ordered)); diff != "" {
		t.Fatalf("order mismatch:\n%s", diff)
	}
}

func TestAssembleSortOrderContiguous(t *testing.T) {
	items := []internal.Item{
		mkItem("f1", internal.TypeFlight, ""),
		mkItem("h1", internal.TypeHotel, "Paris"),
		mkItem("h2", internal.TypeHotel, ""),
		mkItem("a1", internal.TypeActivity, ""),
	}
	ordered := Assemble(items, mkDests("Paris"))

	if len(ordered) != len(items) {
		t.Fatalf("item loss: %d != %d", len(ordered), len(items))
	}
	for i, item := range ordered {
		if item.SortOrder != i {
			t.Fatalf("sort order at %d is %d", i, item.SortOrder)
		}
	}
}

func TestAssembleUnmatchedAccommodationKept(t *testing.T) {
	// empty location never matches; the hotel lands at the end of the
	// accommodation sequence instead of being dropped
	items := []internal.Item{
		mkItem("h-paris", internal.TypeHotel, "Paris"),
		mkItem("h-unknown", internal.TypeHotel, ""),
		mkItem("h-rome", internal.TypeHotel, "Rome"),
	}
	ordered := Assemble(items, mkDests("Paris", "Rome"))

	want := []string{"h-paris", "h-rome", "h-unknown"}
	if diff := cmp.Diff(want, titles(ordered)); diff != "" {
		t.Fatalf("order mismatch:\n%s", diff)
	}
}

func TestAssembleFlightMidpointSplit(t *testing.T) {
	for _, count := range []int{1, 2, 3, 4, 5} {
		items := make([]internal.Item, 0, count+1)
		for i := 0; i < count; i++ {
			items = append(items, mkItem("f"+strconv.Itoa(i), internal.TypeFlight, ""))
		}
		items = append(items, mkItem("h", internal.TypeHotel, ""))

		ordered := Assemble(items, nil)
		half := (count + 1) / 2

		if ordered[half].Title != "h" {
			t.Fatalf("count=%d: expected hotel at %d, got %s", count, half, ordered[half].Title)
		}
		if len(ordered) != count+1 {
			t.Fatalf("count=%d: item loss", count)
		}
	}
}

func TestAssembleAmbiguousMatchAppendsOnce(t *testing.T) {
	// both destinations contain "port"; the hotel matches the first only
	items := []internal.Item{mkItem("h", internal.TypeHotel, "Porto")}
	ordered := Assemble(items, mkDests("Porto", "Porto Santo"))
	if len(ordered) != 1 {
		t.Fatalf("len=%d", len(ordered))
	}
}
