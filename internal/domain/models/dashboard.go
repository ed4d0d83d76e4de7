package models

import "time"

// GroupKey names a trip attribute usable for grouping.
type GroupKey string

const (
	GroupByCity     GroupKey = "car_city"
	GroupByBrand    GroupKey = "car_brand"
	GroupByCustomer GroupKey = "customer_name"
)

// GroupKeys lists the supported keys in the order the sidebar offers them.
var GroupKeys = []GroupKey{GroupByCity, GroupByBrand, GroupByCustomer}

func (k GroupKey) Valid() bool {
	switch k {
	case GroupByCity, GroupByBrand, GroupByCustomer:
		return true
	}
	return false
}

// Criteria is the user's current filter selection.
// Start and End are both inclusive bounds on pickup time.
type Criteria struct {
	Cities []string  `json:"cities"`
	Brands []string  `json:"brands"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Summary holds the three headline metrics.
// AvgDistance is 0 when no trips match.
type Summary struct {
	TotalCount   int     `json:"total_count"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgDistance  float64 `json:"avg_distance"`
}

// GroupCount is the number of trips sharing one value of the grouping key.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FilterOptions feeds the sidebar widgets.
type FilterOptions struct {
	Cities    []string   `json:"cities"`
	Brands    []string   `json:"brands"`
	MinPickup time.Time  `json:"min_pickup"`
	MaxPickup time.Time  `json:"max_pickup"`
	GroupKeys []GroupKey `json:"group_keys"`
	TotalRows int        `json:"total_rows"`
	LoadedAt  time.Time  `json:"loaded_at"`
}

type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ChartConfig describes the grouped bar chart.
type ChartConfig struct {
	ChartType string       `json:"chart_type"`
	Title     string       `json:"title"`
	XAxis     string       `json:"x_axis"`
	YAxis     string       `json:"y_axis"`
	Points    []ChartPoint `json:"points"`
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Dashboard is everything one page render needs.
type Dashboard struct {
	Criteria   Criteria     `json:"criteria"`
	GroupBy    GroupKey     `json:"group_by"`
	Summary    Summary      `json:"summary"`
	Groups     []GroupCount `json:"groups"`
	Chart      ChartConfig  `json:"chart"`
	Rows       []Trip       `json:"rows"`
	Pagination Pagination   `json:"pagination"`
}
