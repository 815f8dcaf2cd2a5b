package internal

// SourcePayload is a raw Travel Compositor booking as delivered by their API:
// loosely structured, with category arrays and inconsistent field naming.
// All reads go through the extractors in internal/pipeline.
type SourcePayload map[string]any

type ItemType string

const (
	TypeFlight    ItemType = "flight"
	TypeHotel     ItemType = "hotel"
	TypeTransfer  ItemType = "transfer"
	TypeCarRental ItemType = "car_rental"
	TypeCruise    ItemType = "cruise"
	TypeActivity  ItemType = "activity"
)

// Destination is one geographic stop of a trip. Order is the zero-based
// position in the trip's chronological sequence and is the backbone for
// ordering accommodations.
type Destination struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Images      []string `json:"images"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Order       int      `json:"order"`
}

// Item is a single itinerary entry. Dates are YYYY-MM-DD strings, empty when
// unknown. SortOrder is assigned by the timeline assembler and is unique and
// contiguous within an import.
type Item struct {
	ID        string   `json:"id"`
	Type      ItemType `json:"type"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	SortOrder int      `json:"sort_order"`
	DateStart string   `json:"date_start,omitempty"`
	DateEnd   string   `json:"date_end,omitempty"`

	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	// hotel / cruise
	Nights     int      `json:"nights,omitempty"`
	StarRating int      `json:"star_rating,omitempty"`
	BoardType  string   `json:"board_type,omitempty"`
	RoomType   string   `json:"room_type,omitempty"`
	Images     []string `json:"images,omitempty"`
	Facilities []string `json:"facilities,omitempty"`

	// flight
	DepartureAirport string `json:"departure_airport,omitempty"`
	ArrivalAirport   string `json:"arrival_airport,omitempty"`
	FlightNumber     string `json:"flight_number,omitempty"`
	Airline          string `json:"airline,omitempty"`

	// transfer / car rental
	Pickup  string `json:"pickup,omitempty"`
	Dropoff string `json:"dropoff,omitempty"`
	Vendor  string `json:"vendor,omitempty"`
}

// ImportResult is the output contract of one import run. DatesResolved is
// false when no trip start date could be determined and items kept whatever
// dates the builders set.
type ImportResult struct {
	Title             string        `json:"title"`
	Subtitle          string        `json:"subtitle"`
	IntroText         string        `json:"introText"`
	HeroImage         string        `json:"heroImage"`
	Destinations      []Destination `json:"destinations"`
	Items             []Item        `json:"items"`
	TotalPrice        float64       `json:"totalPrice"`
	NumberOfTravelers int           `json:"numberOfTravelers"`
	Currency          string        `json:"currency"`
	DatesResolved     bool          `json:"datesResolved"`
}

// OfferteRow is a stored offerte header as listed by the storage layer.
type OfferteRow struct {
	ID                string
	BookingRef        string
	Title             string
	Subtitle          string
	TotalPrice        float64
	NumberOfTravelers int
	Currency          string
	DatesResolved     bool
	CreatedAt         string
}

// RoadbookRow is one line of the day-by-day roadbook export.
type RoadbookRow struct {
	SortOrder int
	Type      string
	Title     string
	DateStart string
	DateEnd   string
	Nights    int
	Location  string
	Price     float64
}
