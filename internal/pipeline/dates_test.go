package pipeline

import (
	"testing"

	"reiswerk/internal"
)

func TestPropagateDatesSequentialStays(t *testing.T) {
	items := []internal.Item{
		{ID: "h1", Type: internal.TypeHotel, Nights: 3},
		{ID: "h2", Type: internal.TypeHotel, Nights: 2},
		{ID: "c1", Type: internal.TypeCruise, Nights: 4},
	}
	payload := internal.SourcePayload{"departureDate": "2026-06-01"}

	if !PropagateDates(items, payload) {
		t.Fatal("start date not resolved")
	}

	if items[0].DateStart != "2026-06-01" || items[0].DateEnd != "2026-06-04" {
		t.Fatalf("h1 dates %s..%s", items[0].DateStart, items[0].DateEnd)
	}
	if items[1].DateStart != "2026-06-04" || items[1].DateEnd != "2026-06-06" {
		t.Fatalf("h2 dates %s..%s", items[1].DateStart, items[1].DateEnd)
	}
	if items[2].DateStart != "2026-06-06" || items[2].DateEnd != "2026-06-10" {
		t.Fatalf("c1 dates %s..%s", items[2].DateStart, items[2].DateEnd)
	}

	// gapless: each stay starts where the previous one ends
	for i := 1; i < len(items); i++ {
		if items[i].DateStart != items[i-1].DateEnd {
			t.Fatalf("gap between %s and %s", items[i-1].ID, items[i].ID)
		}
	}
}

func TestPropagateDatesNightsDefaultToOne(t *testing.T) {
	items := []internal.Item{
		{ID: "h1", Type: internal.TypeHotel},
		{ID: "h2", Type: internal.TypeHotel, Nights: 2},
	}
	if !PropagateDates(items, internal.SourcePayload{"departureDate": "2026-06-01"}) {
		t.Fatal("start date not resolved")
	}
	if items[0].DateEnd != "2026-06-02" {
		t.Fatalf("zero-night stay end %s", items[0].DateEnd)
	}
	if items[1].DateStart != "2026-06-02" {
		t.Fatalf("h2 start %s", items[1].DateStart)
	}
}

func TestPropagateDatesStartPriority(t *testing.T) {
	// flight item wins over raw record and trip level
	items := []internal.Item{
		{ID: "f1", Type: internal.TypeFlight, DateStart: "2026-07-01"},
		{ID: "h1", Type: internal.TypeHotel, Nights: 1},
	}
	payload := internal.SourcePayload{
		"flights":       []any{map[string]any{"departureDate": "2026-08-01"}},
		"departureDate": "2026-09-01",
	}
	if !PropagateDates(items, payload) {
		t.Fatal("not resolved")
	}
	if items[1].DateStart != "2026-07-01" {
		t.Fatalf("start %s", items[1].DateStart)
	}

	// without a dated flight item the raw transport record wins
	items = []internal.Item{{ID: "h1", Type: internal.TypeHotel, Nights: 1}}
	if !PropagateDates(items, payload) {
		t.Fatal("not resolved")
	}
	if items[0].DateStart != "2026-08-01" {
		t.Fatalf("start %s", items[0].DateStart)
	}

	// trip-level declared date as third resort
	items = []internal.Item{{ID: "h1", Type: internal.TypeHotel, Nights: 1}}
	if !PropagateDates(items, internal.SourcePayload{"departureDate": "2026-09-01"}) {
		t.Fatal("not resolved")
	}
	if items[0].DateStart != "2026-09-01" {
		t.Fatalf("start %s", items[0].DateStart)
	}

	// any dated item as last resort
	items = []internal.Item{
		{ID: "a1", Type: internal.TypeActivity, DateStart: "2026-10-05"},
		{ID: "h1", Type: internal.TypeHotel, Nights: 1},
	}
	if !PropagateDates(items, internal.SourcePayload{}) {
		t.Fatal("not resolved")
	}
	if items[1].DateStart != "2026-10-05" {
		t.Fatalf("start %s", items[1].DateStart)
	}
}

func TestPropagateDatesUnresolvableLeavesDates(t *testing.T) {
	items := []internal.Item{
		{ID: "h1", Type: internal.TypeHotel, Nights: 3, DateStart: "niet-een-datum"},
	}
	if PropagateDates(items, internal.SourcePayload{}) {
		t.Fatal("resolved from nothing")
	}
	if items[0].DateStart != "niet-een-datum" || items[0].DateEnd != "" {
		t.Fatalf("dates touched: %+v", items[0])
	}
}

func TestPropagateDatesCarRentalInference(t *testing.T) {
	items := []internal.Item{
		{ID: "h1", Type: internal.TypeHotel, Nights: 2},
		{ID: "c1", Type: internal.TypeCruise, Nights: 3},
		{ID: "h2", Type: internal.TypeHotel, Nights: 2},
		{ID: "car", Type: internal.TypeCarRental},
	}
	if !PropagateDates(items, internal.SourcePayload{"departureDate": "2026-06-01"}) {
		t.Fatal("not resolved")
	}

	// car starts at the last cruise's check-out, ends at the final
	// accommodation's check-out
	if items[3].DateStart != "2026-06-06" {
		t.Fatalf("car start %s", items[3].DateStart)
	}
	if items[3].DateEnd != "2026-06-08" {
		t.Fatalf("car end %s", items[3].DateEnd)
	}
}

func TestPropagateDatesCarRentalNoCruise(t *testing.T) {
	items := []internal.Item{
		{ID: "h1", Type: internal.TypeHotel, Nights: 2},
		{ID: "car", Type: internal.TypeCarRental},
	}
	if !PropagateDates(items, internal.SourcePayload{"departureDate": "2026-06-01"}) {
		t.Fatal("not resolved")
	}
	if items[1].DateStart != "2026-06-01" {
		t.Fatalf("car start %s", items[1].DateStart)
	}
	if items[1].DateEnd != "2026-06-03" {
		t.Fatalf("car end %s", items[1].DateEnd)
	}
}

func TestPropagateDatesExplicitCarDatesKept(t *testing.T) {
	items := []internal.Item{
		{ID: "h1", Type: internal.TypeHotel, Nights: 2},
		{ID: "car", Type: internal.TypeCarRental, DateStart: "2026-06-10", DateEnd: "2026-06-12"},
	}
	if !PropagateDates(items, internal.SourcePayload{"departureDate": "2026-06-01"}) {
		t.Fatal("not resolved")
	}
	if items[1].DateStart != "2026-06-10" || items[1].DateEnd != "2026-06-12" {
		t.Fatalf("explicit car dates overwritten: %+v", items[1])
	}
}
