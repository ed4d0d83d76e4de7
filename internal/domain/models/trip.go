package models

import "time"

// Trip is one ride event from the car sharing dataset.
type Trip struct {
	CarCity      string    `json:"car_city"`
	CarBrand     string    `json:"car_brand"`
	CustomerName string    `json:"customer_name"`
	PickupTime   time.Time `json:"pickup_time"`
	DropoffTime  time.Time `json:"dropoff_time"`
	Distance     float64   `json:"distance"`
	Revenue      float64   `json:"revenue"`
}

// TripColumns lists the required dataset columns in export order.
var TripColumns = []string{
	"car_city",
	"car_brand",
	"customer_name",
	"pickup_time",
	"dropoff_time",
	"distance",
	"revenue",
}

// TripTable is a read-only snapshot of the dataset in file order.
type TripTable struct {
	source   string
	loadedAt time.Time
	trips    []Trip
}

// NewTripTable takes ownership of trips; callers must not modify the slice afterwards.
func NewTripTable(source string, trips []Trip) *TripTable {
	if trips == nil {
		trips = []Trip{}
	}
	return &TripTable{
		source:   source,
		loadedAt: time.Now().UTC(),
		trips:    trips,
	}
}

func (t *TripTable) Source() string { return t.source }

func (t *TripTable) LoadedAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.loadedAt
}

func (t *TripTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.trips)
}

// At returns a copy of the i-th trip.
func (t *TripTable) At(i int) Trip { return t.trips[i] }

// Trips returns a copy of all rows so the snapshot stays immutable.
func (t *TripTable) Trips() []Trip {
	if t == nil {
		return []Trip{}
	}
	out := make([]Trip, len(t.trips))
	copy(out, t.trips)
	return out
}
