package storage

import (
	"path/filepath"
	"testing"

	"reiswerk/internal"
)

func testResult(title string) internal.ImportResult {
	return internal.ImportResult{
		Title:             title,
		Subtitle:          "8 dagen · 7 nachten · Italy",
		TotalPrice:        1200,
		NumberOfTravelers: 2,
		Currency:          "EUR",
		DatesResolved:     true,
		Destinations: []internal.Destination{
			{Name: "Rome", Country: "Italy", Order: 0},
		},
		Items: []internal.Item{
			{ID: "item-1", Type: internal.TypeFlight, Title: "AMS → FCO", SortOrder: 0, Price: 200},
			{ID: "item-2", Type: internal.TypeHotel, Title: "Hotel Forum", SortOrder: 1, Price: 1000, Nights: 3, Location: "Rome", DateStart: "2026-06-01", DateEnd: "2026-06-04"},
		},
	}
}

func TestSaveImportReplacesPreviousImport(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	firstID, err := db.SaveImport("TC-1001", testResult("Eerste versie"))
	if err != nil {
		t.Fatal(err)
	}

	second := testResult("Tweede versie")
	second.Items[0].ID = "item-3"
	second.Items[1].ID = "item-4"
	secondID, err := db.SaveImport("TC-1001", second)
	if err != nil {
		t.Fatal(err)
	}
	if secondID == firstID {
		t.Fatal("expected a fresh offerte id")
	}

	rows, err := db.ListOffertes(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("offertes=%d", len(rows))
	}
	if rows[0].Title != "Tweede versie" {
		t.Fatalf("title=%q", rows[0].Title)
	}

	if old, err := db.GetOfferte(firstID); err != nil || old != nil {
		t.Fatalf("old offerte still present: %v %v", old, err)
	}
}

func TestRoadbookRowsOrderedBySortOrder(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	result := testResult("Rondreis")
	// insert out of order; the query orders by sortOrder
	result.Items[0], result.Items[1] = result.Items[1], result.Items[0]

	id, err := db.SaveImport("TC-2002", result)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := db.GetRoadbookRows(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0].SortOrder != 0 || rows[1].SortOrder != 1 {
		t.Fatalf("order: %d, %d", rows[0].SortOrder, rows[1].SortOrder)
	}
	if rows[1].Nights != 3 || rows[1].Location != "Rome" {
		t.Fatalf("row=%+v", rows[1])
	}
}

func TestRoadbookRowLocationFallsBackToPickup(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	result := testResult("Rondreis")
	result.Items = append(result.Items, internal.Item{
		ID: "item-5", Type: internal.TypeTransfer, Title: "FCO Airport → Hotel Forum",
		SortOrder: 2, Pickup: "FCO Airport", Dropoff: "Hotel Forum",
	})

	id, err := db.SaveImport("TC-2003", result)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := db.GetRoadbookRows(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[2].Location != "FCO Airport" {
		t.Fatalf("location=%q", rows[2].Location)
	}
	// an explicit location wins over the pickup
	if rows[1].Location != "Rome" {
		t.Fatalf("location=%q", rows[1].Location)
	}
}

func TestFindOfferteByBookingRef(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.SaveImport("TC-3003", testResult("Rondreis")); err != nil {
		t.Fatal(err)
	}

	row, err := db.FindOfferteByBookingRef("TC-3003")
	if err != nil {
		t.Fatal(err)
	}
	if row == nil || row.BookingRef != "TC-3003" {
		t.Fatalf("row=%+v", row)
	}
	if !row.DatesResolved {
		t.Fatal("datesResolved lost")
	}

	missing, err := db.FindOfferteByBookingRef("TC-0000")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("unexpected row: %+v", missing)
	}
}
