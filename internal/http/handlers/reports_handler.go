package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"tripdash/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/trips/export
func ExportTrips(c *gin.Context) {
	q, err := parseDashboardQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := dashboardService(c).ExportCSV(c.Request.Context(), q, &buf); err != nil {
		RespondDomainError(c, err)
		return
	}

	filename := fmt.Sprintf("trips_%s.csv", utils.FormatDate(utils.NowUTC()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GET /api/reports/dashboard
func GetDashboardReport(c *gin.Context) {
	q, err := parseDashboardQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	pdf, filename, err := dashboardService(c).ReportPDF(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
