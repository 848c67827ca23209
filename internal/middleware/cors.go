package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// widgetPathPrefix is the public embed surface. It carries its own
// permissive policy (WidgetCORS), so the dashboard policy must not see
// it: gin-contrib/cors rejects foreign origins outright, which would
// block customer-site submissions before the widget group runs.
const widgetPathPrefix = "/api/v1/widget/"

// WidgetCORS is the permissive policy for the public widget endpoints.
// The widget runs on arbitrary customer domains, so every response,
// including errors, must carry the CORS headers or the browser hides
// the body from the embed script.
func WidgetCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// DashboardCORS restricts the authenticated API to the dashboard
// origin. Widget paths pass through untouched.
func DashboardCORS(dashboardURL string) gin.HandlerFunc {
	policy := cors.New(cors.Config{
		AllowOrigins:     []string{dashboardURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, widgetPathPrefix) {
			c.Next()
			return
		}
		policy(c)
	}
}
