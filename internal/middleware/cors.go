package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = strings.Join([]string{
		"Authorization", "Content-Type", "Accept", "Origin", "X-Requested-With", RequestIDHeader,
	}, ", ")
	// Content-Disposition carries the sales report file name.
	corsExposed = "Content-Disposition, " + RequestIDHeader
	corsMaxAge  = strconv.Itoa(int((24 * time.Hour).Seconds()))
)

// CORS echoes the request origin back when it is one of the storefront or
// back-office origins. Preflight requests stop here with 204.
func CORS(origins []string) gin.HandlerFunc {
	allowed := slices.Clone(origins)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" && slices.Contains(allowed, origin) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", corsMethods)
		h.Set("Access-Control-Allow-Headers", corsHeaders)
		h.Set("Access-Control-Expose-Headers", corsExposed)
		h.Set("Access-Control-Max-Age", corsMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
