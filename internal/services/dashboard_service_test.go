package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"
	"tripdash/internal/repositories"

	"github.com/stretchr/testify/require"
)

const serviceCSV = `car_city,car_brand,customer_name,pickup_time,dropoff_time,distance,revenue
Berlin,BMW,Ann,2024-01-01 08:00:00,2024-01-01 08:30:00,10,20
Paris,Fiat,Bob,2024-01-15 09:00:00,2024-01-15 09:20:00,4,9.5
Berlin,Fiat,Cid,2024-02-01 00:00:00,2024-02-01 00:40:00,6,12
Rome,BMW,Ann,2024-02-20 18:30:00,2024-02-20 19:00:00,20,41.25
`

func newTestService(t *testing.T) DashboardService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(serviceCSV), 0o600))
	return DashboardService{
		Source: repositories.TripCSVRepository{Path: path},
		Cache:  repositories.NewTripCache(),
	}
}

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestOptions(t *testing.T) {
	svc := newTestService(t)
	opts, err := svc.Options(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Berlin", "Paris", "Rome"}, opts.Cities)
	require.Equal(t, []string{"BMW", "Fiat"}, opts.Brands)
	require.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), opts.MinPickup)
	require.Equal(t, time.Date(2024, 2, 20, 18, 30, 0, 0, time.UTC), opts.MaxPickup)
	require.Equal(t, 4, opts.TotalRows)
}

func TestDashboardDefaultsSelectEverything(t *testing.T) {
	svc := newTestService(t)
	d, err := svc.Dashboard(context.Background(), DashboardQuery{})
	require.NoError(t, err)

	require.Equal(t, models.GroupByCity, d.GroupBy)
	require.Equal(t, 4, d.Summary.TotalCount)
	require.InDelta(t, 82.75, d.Summary.TotalRevenue, 1e-9)
	require.InDelta(t, 10.0, d.Summary.AvgDistance, 1e-9)
	require.Equal(t, []models.GroupCount{{Key: "Berlin", Count: 2}, {Key: "Paris", Count: 1}, {Key: "Rome", Count: 1}}, d.Groups)
	require.Equal(t, "Total Trips by Car City", d.Chart.Title)
	require.Len(t, d.Rows, 4)
	require.Equal(t, 4, d.Pagination.Total)
}

func TestDashboardFilters(t *testing.T) {
	svc := newTestService(t)
	d, err := svc.Dashboard(context.Background(), DashboardQuery{
		Cities:  []string{"Berlin", "Rome"},
		Brands:  []string{"BMW", "Fiat"},
		Start:   ts("2024-01-01"),
		End:     ts("2024-02-01"),
		GroupBy: models.GroupByBrand,
	})
	require.NoError(t, err)
	require.Equal(t, 2, d.Summary.TotalCount)
	require.Equal(t, []models.GroupCount{{Key: "BMW", Count: 1}, {Key: "Fiat", Count: 1}}, d.Groups)
}

func TestDashboardEmptySelection(t *testing.T) {
	svc := newTestService(t)
	d, err := svc.Dashboard(context.Background(), DashboardQuery{Cities: []string{}})
	require.NoError(t, err)
	require.Equal(t, models.Summary{}, d.Summary)
	require.Empty(t, d.Groups)
	require.Empty(t, d.Rows)
	require.Empty(t, d.Chart.Points)
}

func TestDashboardInvertedRangeIsEmpty(t *testing.T) {
	svc := newTestService(t)
	d, err := svc.Dashboard(context.Background(), DashboardQuery{Start: ts("2024-03-01"), End: ts("2024-01-01")})
	require.NoError(t, err)
	require.Equal(t, 0, d.Summary.TotalCount)
}

func TestDashboardUnknownGroupKey(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Dashboard(context.Background(), DashboardQuery{GroupBy: "distance"})
	require.True(t, domain.IsValidation(err))
}

func TestDashboardPaging(t *testing.T) {
	svc := newTestService(t)
	d, err := svc.Dashboard(context.Background(), DashboardQuery{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, d.Rows, 1)
	require.Equal(t, "Rome", d.Rows[0].CarCity)
	require.Equal(t, models.Pagination{Page: 2, PageSize: 3, Total: 4}, d.Pagination)

	d, err = svc.Dashboard(context.Background(), DashboardQuery{Page: 9})
	require.NoError(t, err)
	require.Empty(t, d.Rows)
}

func TestDashboardMissingDataset(t *testing.T) {
	svc := DashboardService{
		Source: repositories.TripCSVRepository{Path: filepath.Join(t.TempDir(), "missing.csv")},
		Cache:  repositories.NewTripCache(),
	}
	_, err := svc.Dashboard(context.Background(), DashboardQuery{})
	require.True(t, domain.IsNotFound(err))

	_, err = DashboardService{}.Options(context.Background())
	require.True(t, domain.IsInternal(err))
}

func TestReloadPicksUpNewRows(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Options(ctx)
	require.NoError(t, err)

	path := svc.Source.(repositories.TripCSVRepository).Path
	require.NoError(t, os.WriteFile(path, []byte(serviceCSV+"Oslo,Volvo,Dee,2024-03-01 10:00:00,2024-03-01 10:10:00,2,3\n"), 0o600))

	opts, err := svc.Reload(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, opts.TotalRows)
	require.Contains(t, opts.Cities, "Oslo")
}

func TestExportCSVRoundTrips(t *testing.T) {
	svc := newTestService(t)
	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), DashboardQuery{Brands: []string{"BMW"}}, &buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	table, err := repositories.ReadTripsCSV("export", strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, "Berlin", table.At(0).CarCity)
	require.Equal(t, 41.25, table.At(1).Revenue)
	require.Equal(t, time.Date(2024, 2, 20, 18, 30, 0, 0, time.UTC), table.At(1).PickupTime)
}

func TestExportCSVEmpty(t *testing.T) {
	svc := newTestService(t)
	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), DashboardQuery{Brands: []string{}}, &buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, "car_city,car_brand,customer_name,pickup_time,dropoff_time,distance,revenue\n", buf.String())
}

func TestReportPDF(t *testing.T) {
	svc := newTestService(t)
	pdf, filename, err := svc.ReportPDF(context.Background(), DashboardQuery{GroupBy: models.GroupByCustomer})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	require.Equal(t, "TRIP_DASHBOARD_customer_name_2024-02-20.pdf", filename)

	pdf, _, err = svc.ReportPDF(context.Background(), DashboardQuery{Cities: []string{}})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#636EFA")
	require.Equal(t, []int{99, 110, 250}, []int{r, g, b})
	r, g, b = hexToRGB("bad")
	require.Equal(t, []int{99, 110, 250}, []int{r, g, b})
}
