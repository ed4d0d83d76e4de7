package domain

import (
	"strings"

	"tripdash/internal/domain/models"
)

// Summarize computes the headline metrics for a subset.
// The average distance of an empty subset is reported as 0.
func Summarize(trips []models.Trip) models.Summary {
	var s models.Summary
	var distance float64
	for _, t := range trips {
		s.TotalRevenue += t.Revenue
		distance += t.Distance
	}
	s.TotalCount = len(trips)
	if s.TotalCount > 0 {
		s.AvgDistance = distance / float64(s.TotalCount)
	}
	return s
}

// GroupBy counts trips per distinct value of key, in order of first occurrence.
func GroupBy(trips []models.Trip, key models.GroupKey) ([]models.GroupCount, error) {
	if !key.Valid() {
		return nil, ValidationError{Field: "group_by", Msg: "unsupported grouping attribute " + string(key)}
	}

	index := make(map[string]int)
	out := []models.GroupCount{}
	for _, t := range trips {
		v := GroupValue(t, key)
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, models.GroupCount{Key: v})
		}
		out[i].Count++
	}
	return out, nil
}

// GroupValue reads the grouping attribute from a trip.
func GroupValue(t models.Trip, key models.GroupKey) string {
	switch key {
	case models.GroupByCity:
		return t.CarCity
	case models.GroupByBrand:
		return t.CarBrand
	case models.GroupByCustomer:
		return t.CustomerName
	}
	return ""
}

// Options collects the selectable widget values from the full table.
func Options(table *models.TripTable) models.FilterOptions {
	opts := models.FilterOptions{
		Cities:    []string{},
		Brands:    []string{},
		GroupKeys: models.GroupKeys,
		TotalRows: table.Len(),
		LoadedAt:  table.LoadedAt(),
	}
	seenCity := map[string]struct{}{}
	seenBrand := map[string]struct{}{}
	for i := 0; i < table.Len(); i++ {
		t := table.At(i)
		if _, ok := seenCity[t.CarCity]; !ok {
			seenCity[t.CarCity] = struct{}{}
			opts.Cities = append(opts.Cities, t.CarCity)
		}
		if _, ok := seenBrand[t.CarBrand]; !ok {
			seenBrand[t.CarBrand] = struct{}{}
			opts.Brands = append(opts.Brands, t.CarBrand)
		}
		if i == 0 || t.PickupTime.Before(opts.MinPickup) {
			opts.MinPickup = t.PickupTime
		}
		if i == 0 || t.PickupTime.After(opts.MaxPickup) {
			opts.MaxPickup = t.PickupTime
		}
	}
	return opts
}

// DefaultCriteria selects everything, like the sidebar does on first load.
func DefaultCriteria(opts models.FilterOptions) models.Criteria {
	return models.Criteria{
		Cities: append([]string(nil), opts.Cities...),
		Brands: append([]string(nil), opts.Brands...),
		Start:  opts.MinPickup,
		End:    opts.MaxPickup,
	}
}

// TitleKey renders "car_city" as "Car City".
func TitleKey(key models.GroupKey) string {
	parts := strings.Split(string(key), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
