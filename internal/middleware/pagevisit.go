package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type visitRecorder interface {
	Visit(ctx context.Context, userID *int64, page string)
}

// PageVisit records a page view for successful requests.
func PageVisit(recorder visitRecorder, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}
		recorder.Visit(c.Request.Context(), Caller(c).ID(), page)
	}
}
