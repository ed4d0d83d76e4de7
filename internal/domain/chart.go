package domain

import (
	"fmt"

	"tripdash/internal/domain/models"
)

// chartColors is the palette bars cycle through, one colour per group key value.
var chartColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// BuildChart turns grouped counts into a bar chart description.
func BuildChart(key models.GroupKey, groups []models.GroupCount) models.ChartConfig {
	title := TitleKey(key)
	cfg := models.ChartConfig{
		ChartType: "bar",
		Title:     fmt.Sprintf("Total Trips by %s", title),
		XAxis:     title,
		YAxis:     "Total Trips",
		Points:    make([]models.ChartPoint, 0, len(groups)),
	}
	for i, g := range groups {
		cfg.Points = append(cfg.Points, models.ChartPoint{
			Label: g.Key,
			Value: g.Count,
			Color: chartColors[i%len(chartColors)],
		})
	}
	return cfg
}
