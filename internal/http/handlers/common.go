package handlers

import (
	"strconv"
	"sync"
	"time"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"
	"tripdash/internal/http/middleware"
	"tripdash/internal/repositories"
	"tripdash/internal/services"
	"tripdash/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	datasetMu sync.RWMutex
	source    repositories.TripSource
	cache     *repositories.TripCache
)

// SetDataset wires the trip source and its cache used by every handler.
func SetDataset(src repositories.TripSource, c *repositories.TripCache) {
	datasetMu.Lock()
	defer datasetMu.Unlock()
	source = src
	cache = c
}

func dashboardService(c *gin.Context) services.DashboardService {
	datasetMu.RLock()
	defer datasetMu.RUnlock()
	return services.DashboardService{
		Source:    source,
		Cache:     cache,
		RequestID: middleware.GetRequestID(c),
	}
}

// parseDashboardQuery turns the sidebar widget state into a query.
// An absent city/brand parameter means "all"; a present but blank one means none.
func parseDashboardQuery(c *gin.Context) (services.DashboardQuery, error) {
	var q services.DashboardQuery

	if vals, ok := c.GetQueryArray("city"); ok {
		q.Cities = utils.UniqueValues(vals)
	}
	if vals, ok := c.GetQueryArray("brand"); ok {
		q.Brands = utils.UniqueValues(vals)
	}

	var err error
	if q.Start, err = parseBound(c, "start"); err != nil {
		return q, err
	}
	if q.End, err = parseBound(c, "end"); err != nil {
		return q, err
	}

	q.GroupBy = models.GroupKey(utils.TrimOrEmpty(c.DefaultQuery("group_by", string(models.GroupByCity))))
	if !q.GroupBy.Valid() {
		return q, domain.ValidationError{Field: "group_by", Msg: "must be one of car_city, car_brand, customer_name"}
	}

	if q.Page, err = parsePositive(c, "page", 1); err != nil {
		return q, err
	}
	if q.PageSize, err = parsePositive(c, "page_size", services.DefaultPageSize); err != nil {
		return q, err
	}
	if q.PageSize > services.MaxPageSize {
		return q, domain.ValidationError{Field: "page_size", Msg: "must not exceed " + strconv.Itoa(services.MaxPageSize)}
	}
	return q, nil
}

func parseBound(c *gin.Context, name string) (*time.Time, error) {
	raw := utils.TrimOrEmpty(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := utils.ParseTimestamp(raw)
	if err != nil {
		return nil, domain.ValidationError{Field: name, Msg: "expected YYYY-MM-DD or an ISO date-time", Err: err}
	}
	return &t, nil
}

func parsePositive(c *gin.Context, name string, def int) (int, error) {
	raw := utils.TrimOrEmpty(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.ValidationError{Field: name, Msg: "must be a positive integer", Err: err}
	}
	return n, nil
}
