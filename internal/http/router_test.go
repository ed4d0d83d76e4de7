package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	intconfig "tripdash/internal/config"
	"tripdash/internal/domain/models"
	h "tripdash/internal/http/handlers"
	"tripdash/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const routerCSV = `car_city,car_brand,customer_name,pickup_time,dropoff_time,distance,revenue
A,X,Ann,2024-01-01 00:00:00,2024-01-01 00:30:00,10,20
B,Y,Bob,2024-02-01 00:00:00,2024-02-01 00:30:00,5,10
`

func newTestRouter(t *testing.T, csv string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	h.SetDataset(repositories.TripCSVRepository{Path: path}, repositories.NewTripCache())

	return NewRouter(intconfig.Env{CORSOrigins: []string{"http://localhost:5173"}})
}

func get(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealthAndRoutes(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"rows":2`)
	require.Contains(t, w.Body.String(), `"loaded_at"`)

	w = get(t, r, "/api/routes")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "/api/dashboard")
}

func TestOptionsEndpoint(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/api/options")
	require.Equal(t, http.StatusOK, w.Code)

	var opts models.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	require.Equal(t, []string{"A", "B"}, opts.Cities)
	require.Equal(t, []string{"X", "Y"}, opts.Brands)
	require.Equal(t, 2, opts.TotalRows)
}

func TestDashboardEndpointExamples(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/api/dashboard?city=A&brand=X&start=2024-01-01&end=2024-01-31")
	require.Equal(t, http.StatusOK, w.Code)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, models.Summary{TotalCount: 1, TotalRevenue: 20, AvgDistance: 10}, d.Summary)
	require.Len(t, d.Rows, 1)

	w = get(t, r, "/api/dashboard?city=A&city=B&brand=X&brand=Y&start=2024-01-01&end=2024-02-01&group_by=car_city")
	require.Equal(t, http.StatusOK, w.Code)
	d = models.Dashboard{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, []models.GroupCount{{Key: "A", Count: 1}, {Key: "B", Count: 1}}, d.Groups)
	require.Equal(t, "Total Trips by Car City", d.Chart.Title)
}

func dashboardTotal(t *testing.T, r *gin.Engine, target string) int {
	t.Helper()
	w := get(t, r, target)
	require.Equal(t, http.StatusOK, w.Code, target)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	return d.Summary.TotalCount
}

func TestDashboardEndpointKeepsCommaValues(t *testing.T) {
	r := newTestRouter(t, `car_city,car_brand,customer_name,pickup_time,dropoff_time,distance,revenue
"Washington, D.C.",X,Ann,2024-01-01 08:00:00,2024-01-01 08:30:00,4,12
Washington,X,Bob,2024-01-02 08:00:00,2024-01-02 08:30:00,6,18
`)

	w := get(t, r, "/api/dashboard?city="+url.QueryEscape("Washington, D.C."))
	require.Equal(t, http.StatusOK, w.Code)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, []string{"Washington, D.C."}, d.Criteria.Cities)
	require.Equal(t, 1, d.Summary.TotalCount)
	require.Equal(t, "Ann", d.Rows[0].CustomerName)

	w = get(t, r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `<option value="Washington, D.C." selected>`)
}

var formValue = regexp.MustCompile(`name="(start|end)" value="([^"]*)"`)

func TestDashboardPageFormRoundTrip(t *testing.T) {
	r := newTestRouter(t, `car_city,car_brand,customer_name,pickup_time,dropoff_time,distance,revenue
A,X,Ann,2024-01-01 08:12:00,2024-01-01 08:40:00,10,20
A,X,Bob,2024-02-03 20:05:00,2024-02-03 20:40:00,5,10
`)

	w := get(t, r, "/")
	require.Equal(t, http.StatusOK, w.Code)

	form := url.Values{"city": {"", "A"}, "brand": {"", "X"}, "group_by": {"car_city"}}
	for _, m := range formValue.FindAllStringSubmatch(w.Body.String(), -1) {
		form.Set(m[1], m[2])
	}
	require.NotEmpty(t, form.Get("start"))
	require.NotEmpty(t, form.Get("end"))

	require.Equal(t, 2, dashboardTotal(t, r, "/api/dashboard"))
	require.Equal(t, 2, dashboardTotal(t, r, "/api/dashboard?"+form.Encode()))

	w = get(t, r, "/?"+form.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "2 rows")
}

func TestDashboardEndpointEmptySelection(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/api/dashboard?city=")
	require.Equal(t, http.StatusOK, w.Code)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, models.Summary{}, d.Summary)
	require.Empty(t, d.Groups)
}

func TestDashboardEndpointRejectsBadInput(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	for _, target := range []string{
		"/api/dashboard?start=not-a-date",
		"/api/dashboard?end=2024-13-45",
		"/api/dashboard?group_by=revenue",
		"/api/trips?page=0",
		"/api/trips?page_size=5000",
	} {
		w := get(t, r, target)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
		require.Contains(t, w.Body.String(), "validation_error", target)
		require.Contains(t, w.Body.String(), "request_id", target)
	}
}

func TestTripsEndpointPaging(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/api/trips?page=2&page_size=1")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Rows       []models.Trip     `json:"rows"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	require.Equal(t, "Bob", body.Rows[0].CustomerName)
	require.Equal(t, 2, body.Pagination.Total)
}

func TestExportAndReport(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/api/trips/export?brand=Y")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "B,Y,Bob,"))

	w = get(t, r, "/api/reports/dashboard?group_by=car_brand")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestReload(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"rows":2`)

	req := httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil)
	req.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDashboardPage(t *testing.T) {
	r := newTestRouter(t, routerCSV)

	w := get(t, r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "Total Trips by Car City")
	require.Contains(t, body, "$30.00")
	require.Contains(t, body, "7.50")
	require.Contains(t, body, `<option value="A" selected>A</option>`)
	require.Contains(t, body, "<rect")

	w = get(t, r, "/?city=&brand=X")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No trips match the current filters.")
	require.Contains(t, w.Body.String(), `<option value="A">A</option>`)

	w = get(t, r, "/?start=garbage")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "start: expected YYYY-MM-DD")
}

func TestMissingDataset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h.SetDataset(repositories.TripCSVRepository{Path: filepath.Join(t.TempDir(), "missing.csv")}, repositories.NewTripCache())
	r := NewRouter(intconfig.Env{})

	w := get(t, r, "/api/dashboard")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, r, "/api/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(t, r, "/")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHeaderOnlyDataset(t *testing.T) {
	r := newTestRouter(t, "car_city,car_brand,customer_name,pickup_time,dropoff_time,distance,revenue\n")

	w := get(t, r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"rows":0`)

	w = get(t, r, "/api/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, models.Summary{}, d.Summary)
	require.Empty(t, d.Groups)

	w = get(t, r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No trips match the current filters.")
}

func TestMalformedDataset(t *testing.T) {
	r := newTestRouter(t, "car_city,car_brand\nA,X\n")

	w := get(t, r, "/api/options")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "dataset_error")
}
