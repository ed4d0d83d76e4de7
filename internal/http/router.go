package api

import (
	"embed"
	"html/template"
	"log"
	stdhttp "net/http"

	intconfig "tripdash/internal/config"
	h "tripdash/internal/http/handlers"
	"tripdash/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/", h.DashboardPage)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/routes", h.Routes)
		api.GET("/options", h.GetFilterOptions)
		api.GET("/dashboard", h.GetDashboard)

		trips := api.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.GET("/export", h.ExportTrips)

		reports := api.Group("/reports")
		reports.GET("/dashboard", h.GetDashboardReport)

		dataset := api.Group("/dataset")
		dataset.POST("/reload", h.ReloadDataset)
	}

	h.SetRouter(r)
	return r
}
