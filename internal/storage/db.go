package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reiswerk/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS offertes (
  id TEXT PRIMARY KEY,
  bookingRef TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  subtitle TEXT,
  introText TEXT,
  heroImage TEXT,
  totalPrice REAL NOT NULL DEFAULT 0,
  numberOfTravelers INTEGER NOT NULL DEFAULT 2,
  currency TEXT,
  datesResolved INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_offertes_bookingRef ON offertes(bookingRef);

CREATE TABLE IF NOT EXISTS offerte_destinations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  offerteId TEXT NOT NULL,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  country TEXT,
  description TEXT,
  highlightsJson TEXT NOT NULL DEFAULT '[]',
  imagesJson TEXT NOT NULL DEFAULT '[]',
  lat REAL,
  lng REAL,
  FOREIGN KEY(offerteId) REFERENCES offertes(id)
);

CREATE TABLE IF NOT EXISTS offerte_items (
  id TEXT PRIMARY KEY,
  offerteId TEXT NOT NULL,
  sortOrder INTEGER NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  price REAL NOT NULL DEFAULT 0,
  dateStart TEXT,
  dateEnd TEXT,
  nights INTEGER,
  location TEXT,
  detailsJson TEXT NOT NULL,
  FOREIGN KEY(offerteId) REFERENCES offertes(id)
);
CREATE INDEX IF NOT EXISTS idx_items_offerte ON offerte_items(offerteId, sortOrder);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  bookingRef TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveImport persists one import result under its booking reference,
// replacing any previous import of the same booking. Returns the offerte id.
func (d *DB) SaveImport(bookingRef string, result internal.ImportResult) (string, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRow(`SELECT id FROM offertes WHERE bookingRef = ?`, bookingRef).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if existingID != "" {
		if _, err := tx.Exec(`DELETE FROM offerte_items WHERE offerteId = ?`, existingID); err != nil {
			return "", err
		}
		if _, err := tx.Exec(`DELETE FROM offerte_destinations WHERE offerteId = ?`, existingID); err != nil {
			return "", err
		}
		if _, err := tx.Exec(`DELETE FROM offertes WHERE id = ?`, existingID); err != nil {
			return "", err
		}
	}

	offerteID := uuid.NewString()
	_, err = tx.Exec(`
INSERT INTO offertes (id, bookingRef, title, subtitle, introText, heroImage, totalPrice, numberOfTravelers, currency, datesResolved)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, offerteID, bookingRef, result.Title, result.Subtitle, result.IntroText, result.HeroImage,
		result.TotalPrice, result.NumberOfTravelers, result.Currency, boolToInt(result.DatesResolved))
	if err != nil {
		return "", err
	}

	for _, dest := range result.Destinations {
		highlightsJSON, _ := json.Marshal(dest.Highlights)
		imagesJSON, _ := json.Marshal(dest.Images)
		if _, err := tx.Exec(`
INSERT INTO offerte_destinations (offerteId, ord, name, country, description, highlightsJson, imagesJson, lat, lng)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, offerteID, dest.Order, dest.Name, dest.Country, dest.Description, string(highlightsJSON), string(imagesJSON), dest.Lat, dest.Lng); err != nil {
			return "", err
		}
	}

	for _, item := range result.Items {
		detailsJSON, _ := json.Marshal(item)
		// transfers and car rentals carry their place in Pickup, not Location
		location := item.Location
		if location == "" {
			location = item.Pickup
		}
		if _, err := tx.Exec(`
INSERT INTO offerte_items (id, offerteId, sortOrder, type, title, price, dateStart, dateEnd, nights, location, detailsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, item.ID, offerteID, item.SortOrder, string(item.Type), item.Title, item.Price,
			item.DateStart, item.DateEnd, item.Nights, location, string(detailsJSON)); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return offerteID, nil
}

func (d *DB) GetOfferte(id string) (*internal.OfferteRow, error) {
	var row internal.OfferteRow
	var resolved int
	err := d.conn.QueryRow(`
SELECT id, bookingRef, title, subtitle, totalPrice, numberOfTravelers, currency, datesResolved, createdAt
FROM offertes WHERE id = ?
`, id).Scan(&row.ID, &row.BookingRef, &row.Title, &row.Subtitle, &row.TotalPrice, &row.NumberOfTravelers, &row.Currency, &resolved, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.DatesResolved = resolved != 0
	return &row, nil
}

func (d *DB) FindOfferteByBookingRef(bookingRef string) (*internal.OfferteRow, error) {
	var id string
	err := d.conn.QueryRow(`SELECT id FROM offertes WHERE bookingRef = ?`, bookingRef).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.GetOfferte(id)
}

func (d *DB) ListOffertes(limit int) ([]internal.OfferteRow, error) {
	rows, err := d.conn.Query(`
SELECT id, bookingRef, title, subtitle, totalPrice, numberOfTravelers, currency, datesResolved, createdAt
FROM offertes ORDER BY createdAt DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.OfferteRow
	for rows.Next() {
		var row internal.OfferteRow
		var resolved int
		if err := rows.Scan(&row.ID, &row.BookingRef, &row.Title, &row.Subtitle, &row.TotalPrice, &row.NumberOfTravelers, &row.Currency, &resolved, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.DatesResolved = resolved != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) GetRoadbookRows(offerteID string) ([]internal.RoadbookRow, error) {
	rows, err := d.conn.Query(`
SELECT sortOrder, type, title, dateStart, dateEnd, nights, location, price
FROM offerte_items WHERE offerteId = ? ORDER BY sortOrder ASC
`, offerteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RoadbookRow
	for rows.Next() {
		var row internal.RoadbookRow
		var dateStart, dateEnd, location sql.NullString
		var nights sql.NullInt64
		if err := rows.Scan(&row.SortOrder, &row.Type, &row.Title, &dateStart, &dateEnd, &nights, &location, &row.Price); err != nil {
			return nil, err
		}
		row.DateStart = dateStart.String
		row.DateEnd = dateEnd.String
		row.Nights = int(nights.Int64)
		row.Location = location.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID, bookingRef string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, bookingRef, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, bookingRef, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) MustOfferte(id string) (internal.OfferteRow, error) {
	row, err := d.GetOfferte(id)
	if err != nil {
		return internal.OfferteRow{}, err
	}
	if row == nil {
		return internal.OfferteRow{}, fmt.Errorf("offerte not found: %s", id)
	}
	return *row, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
