package handlers

import (
	"net/http"
	"strings"

	"tripdash/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/options
func GetFilterOptions(c *gin.Context) {
	opts, err := dashboardService(c).Options(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GET /api/dashboard
func GetDashboard(c *gin.Context) {
	q, err := parseDashboardQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	d, err := dashboardService(c).Dashboard(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type tripsResponse struct {
	Criteria   models.Criteria   `json:"criteria"`
	Rows       []models.Trip     `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}

// GET /api/trips
func GetTrips(c *gin.Context) {
	q, err := parseDashboardQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	d, err := dashboardService(c).Dashboard(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tripsResponse{
		Criteria:   d.Criteria,
		Rows:       d.Rows,
		Pagination: d.Pagination,
	})
}

// POST /api/dataset/reload
func ReloadDataset(c *gin.Context) {
	opts, err := dashboardService(c).Reload(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dataset reloaded", "rows": opts.TotalRows})
}
