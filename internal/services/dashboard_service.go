package services

import (
	"context"
	"fmt"
	"time"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"
	"tripdash/internal/repositories"
	"tripdash/internal/utils"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// DashboardQuery is the raw widget state of one request. Nil slices mean the
// widget was not sent and defaults apply; empty non-nil slices select nothing.
type DashboardQuery struct {
	Cities   []string
	Brands   []string
	Start    *time.Time
	End      *time.Time
	GroupBy  models.GroupKey
	Page     int
	PageSize int
}

type DashboardService struct {
	Source    repositories.TripSource
	Cache     *repositories.TripCache
	RequestID string
}

// Table returns the cached trip table.
func (s DashboardService) Table(ctx context.Context) (*models.TripTable, error) {
	if s.Source == nil {
		return nil, domain.InternalError{Msg: "trip source not configured"}
	}
	if s.Cache == nil {
		return s.Source.Load(ctx)
	}
	return s.Cache.Get(ctx, s.Source)
}

func (s DashboardService) Options(ctx context.Context) (models.FilterOptions, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	return domain.Options(table), nil
}

// Criteria fills in defaults for whatever the query left out.
func Criteria(opts models.FilterOptions, q DashboardQuery) models.Criteria {
	c := domain.DefaultCriteria(opts)
	if q.Cities != nil {
		c.Cities = q.Cities
	}
	if q.Brands != nil {
		c.Brands = q.Brands
	}
	if q.Start != nil {
		c.Start = *q.Start
	}
	if q.End != nil {
		c.End = *q.End
	}
	return c
}

// Filtered resolves the query against the table and applies the filter.
func (s DashboardService) Filtered(ctx context.Context, q DashboardQuery) (models.Criteria, []models.Trip, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return models.Criteria{}, nil, err
	}
	c := Criteria(domain.Options(table), q)
	return c, domain.FilterTrips(table, c), nil
}

// Dashboard recomputes every derived view for one interaction.
func (s DashboardService) Dashboard(ctx context.Context, q DashboardQuery) (models.Dashboard, error) {
	key := q.GroupBy
	if key == "" {
		key = models.GroupByCity
	}

	c, trips, err := s.Filtered(ctx, q)
	if err != nil {
		return models.Dashboard{}, err
	}
	groups, err := domain.GroupBy(trips, key)
	if err != nil {
		return models.Dashboard{}, err
	}

	page, size := normalizePage(q.Page, q.PageSize)
	out := models.Dashboard{
		Criteria: c,
		GroupBy:  key,
		Summary:  domain.Summarize(trips),
		Groups:   groups,
		Chart:    domain.BuildChart(key, groups),
		Rows:     pageOf(trips, page, size),
		Pagination: models.Pagination{
			Page:     page,
			PageSize: size,
			Total:    len(trips),
		},
	}

	utils.LogEvent(s.RequestID, "dashboard", "build", fmt.Sprintf("rows=%d groups=%d group_by=%s", len(trips), len(groups), key))
	return out, nil
}

// Reload drops the cached table and loads it again.
func (s DashboardService) Reload(ctx context.Context) (models.FilterOptions, error) {
	if s.Cache != nil && s.Source != nil {
		s.Cache.Invalidate(s.Source.Key())
	}
	opts, err := s.Options(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	utils.LogEvent(s.RequestID, "dataset", "reload", fmt.Sprintf("rows=%d", opts.TotalRows))
	return opts, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func pageOf(trips []models.Trip, page, size int) []models.Trip {
	start := (page - 1) * size
	if start >= len(trips) {
		return []models.Trip{}
	}
	end := start + size
	if end > len(trips) {
		end = len(trips)
	}
	return trips[start:end]
}
