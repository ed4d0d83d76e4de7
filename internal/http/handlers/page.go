package handlers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"
	"tripdash/internal/services"
	"tripdash/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	chartWidth   = 640.0
	chartHeight  = 260.0
	chartPadTop  = 24.0
	chartPadBase = 36.0
)

type pageOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageBar struct {
	Label  string
	Count  int
	Color  string
	X      float64
	Y      float64
	W      float64
	H      float64
	LabelX float64
}

type pageRow struct {
	City     string
	Brand    string
	Customer string
	Pickup   string
	Dropoff  string
	Distance string
	Revenue  string
}

type pageView struct {
	Error        string
	Cities       []pageOption
	Brands       []pageOption
	GroupKeys    []pageOption
	Start        string
	End          string
	MinTime      string
	MaxTime      string
	TotalTrips   string
	TotalRevenue string
	AvgDistance  string
	Heading      string
	ChartTitle   string
	ChartWidth   float64
	ChartHeight  float64
	BaseY        float64
	Bars         []pageBar
	Rows         []pageRow
	Page         int
	Pages        int
	TotalRows    int
	PrevURL      string
	NextURL      string
	ExportURL    string
	ReportURL    string
}

// GET /
func DashboardPage(c *gin.Context) {
	ctx := c.Request.Context()
	svc := dashboardService(c)

	opts, err := svc.Options(ctx)
	if err != nil {
		renderPageError(c, pageView{}, err)
		return
	}

	q, err := parseDashboardQuery(c)
	if err != nil {
		view := pageView{}
		fillFilters(&view, opts, services.Criteria(opts, services.DashboardQuery{}), models.GroupByCity)
		renderPageError(c, view, err)
		return
	}

	d, err := svc.Dashboard(ctx, q)
	if err != nil {
		view := pageView{}
		fillFilters(&view, opts, services.Criteria(opts, q), models.GroupByCity)
		renderPageError(c, view, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", buildPageView(opts, d, c.Request.URL.Query()))
}

func renderPageError(c *gin.Context, view pageView, err error) {
	status, code := errorStatus(err)
	view.Error = err.Error()
	if code == "internal_error" {
		view.Error = "internal error"
	}
	c.HTML(status, "dashboard.tmpl", view)
}

func buildPageView(opts models.FilterOptions, d models.Dashboard, query url.Values) pageView {
	view := pageView{
		TotalTrips:   utils.FormatNumber(d.Summary.TotalCount),
		TotalRevenue: utils.FormatMoney(d.Summary.TotalRevenue),
		AvgDistance:  utils.FormatDecimal(d.Summary.AvgDistance),
		Heading:      "Trip Metrics by " + domain.TitleKey(d.GroupBy),
		ChartTitle:   d.Chart.Title,
		ChartWidth:   chartWidth,
		ChartHeight:  chartHeight,
		BaseY:        chartHeight - chartPadBase,
		Bars:         layoutBars(d.Chart),
		Page:         d.Pagination.Page,
		TotalRows:    d.Pagination.Total,
	}
	fillFilters(&view, opts, d.Criteria, d.GroupBy)

	view.Pages = int(math.Ceil(float64(d.Pagination.Total) / float64(d.Pagination.PageSize)))
	if view.Pages < 1 {
		view.Pages = 1
	}
	if view.Page > 1 {
		view.PrevURL = withPage(query, view.Page-1)
	}
	if view.Page < view.Pages {
		view.NextURL = withPage(query, view.Page+1)
	}

	plain := cloneValues(query)
	plain.Del("page")
	plain.Del("page_size")
	view.ExportURL = "/api/trips/export?" + plain.Encode()
	view.ReportURL = "/api/reports/dashboard?" + plain.Encode()

	for _, t := range d.Rows {
		view.Rows = append(view.Rows, pageRow{
			City:     t.CarCity,
			Brand:    t.CarBrand,
			Customer: t.CustomerName,
			Pickup:   utils.FormatDateTime(t.PickupTime),
			Dropoff:  utils.FormatDateTime(t.DropoffTime),
			Distance: utils.FormatDecimal(t.Distance),
			Revenue:  utils.FormatMoney(t.Revenue),
		})
	}
	return view
}

func fillFilters(view *pageView, opts models.FilterOptions, c models.Criteria, key models.GroupKey) {
	view.Cities = optionsFor(opts.Cities, c.Cities)
	view.Brands = optionsFor(opts.Brands, c.Brands)
	for _, k := range models.GroupKeys {
		view.GroupKeys = append(view.GroupKeys, pageOption{Value: string(k), Label: domain.TitleKey(k), Selected: k == key})
	}
	if !opts.MinPickup.IsZero() {
		view.MinTime = utils.FormatInputFloor(opts.MinPickup)
		view.MaxTime = utils.FormatInputCeil(opts.MaxPickup)
	}
	if !c.Start.IsZero() {
		view.Start = utils.FormatInputFloor(c.Start)
	}
	if !c.End.IsZero() {
		view.End = utils.FormatInputCeil(c.End)
	}
}

func optionsFor(all, selected []string) []pageOption {
	set := make(map[string]bool, len(selected))
	for _, s := range selected {
		set[s] = true
	}
	out := make([]pageOption, 0, len(all))
	for _, v := range all {
		out = append(out, pageOption{Value: v, Label: v, Selected: set[v]})
	}
	return out
}

// layoutBars places one bar per group inside the SVG viewBox.
func layoutBars(chart models.ChartConfig) []pageBar {
	if len(chart.Points) == 0 {
		return nil
	}
	maxVal := 0
	for _, p := range chart.Points {
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	plot := chartHeight - chartPadTop - chartPadBase
	slot := chartWidth / float64(len(chart.Points))
	w := slot * 0.7
	bars := make([]pageBar, 0, len(chart.Points))
	for i, p := range chart.Points {
		h := plot * float64(p.Value) / float64(maxVal)
		x := float64(i)*slot + (slot-w)/2
		bars = append(bars, pageBar{
			Label:  p.Label,
			Count:  p.Value,
			Color:  p.Color,
			X:      round1(x),
			Y:      round1(chartHeight - chartPadBase - h),
			W:      round1(w),
			H:      round1(h),
			LabelX: round1(x + w/2),
		})
	}
	return bars
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func withPage(query url.Values, page int) string {
	v := cloneValues(query)
	v.Set("page", strconv.Itoa(page))
	return "/?" + v.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
