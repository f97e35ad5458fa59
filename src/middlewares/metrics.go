package middlewares

import (
	"strconv"
	"time"

	"eventplanning/src/lib"

	"github.com/gin-gonic/gin"
)

func MetricsMiddleware(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	path := ctx.FullPath()
	if path == "" {
		path = "unmatched"
	}
	lib.TrackRequest(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status()), time.Since(start))
}
