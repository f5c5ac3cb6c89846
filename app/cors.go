package app

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsConfig allows the SPA origins listed in WEB_ORIGIN (comma separated).
// Export downloads expose their key and checksum headers to the browser.
func corsConfig(webOrigin string) cors.Config {
	var origins []string
	for _, o := range strings.Split(webOrigin, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition", "Server-Timing", "X-Export-Key", "X-Checksum-Xxhash64"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func useCORS(r *gin.Engine, webOrigin string) {
	r.Use(cors.New(corsConfig(webOrigin)))
}
