package domain

import "tripdash/internal/domain/models"

// FilterTrips returns the trips matching every criterion, in table order.
// Cities and brands are exact matches; an empty set matches nothing.
// The pickup window is inclusive on both ends and empty when Start is after End.
func FilterTrips(table *models.TripTable, c models.Criteria) []models.Trip {
	out := []models.Trip{}
	if table.Len() == 0 || len(c.Cities) == 0 || len(c.Brands) == 0 || c.Start.After(c.End) {
		return out
	}

	cities := toSet(c.Cities)
	brands := toSet(c.Brands)

	for i := 0; i < table.Len(); i++ {
		t := table.At(i)
		if _, ok := cities[t.CarCity]; !ok {
			continue
		}
		if _, ok := brands[t.CarBrand]; !ok {
			continue
		}
		if t.PickupTime.Before(c.Start) || t.PickupTime.After(c.End) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterSlice applies the same predicate to an already materialized subset.
func FilterSlice(trips []models.Trip, c models.Criteria) []models.Trip {
	return FilterTrips(models.NewTripTable("", trips), c)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
