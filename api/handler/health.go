package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/solvetrack/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Pinger checks datastore connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a handler for GET /api/v1/health.
//
// Reports "degraded" when the datastore does not answer.
func Health(store Pinger, gate *Gate, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, storeStatus := "healthy", "ok"
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				status, storeStatus = "degraded", "unreachable"
			}
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Store:   storeStatus,
			Running: gate.Busy(),
			Version: Version,
		})
	}
}
