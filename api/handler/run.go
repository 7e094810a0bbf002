package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/solvetrack/models"
)

// Runner performs one full tracker run.
type Runner interface {
	Handle(ctx context.Context) models.RunResponse
}

// Run returns a handler for POST /api/v1/run.
//
// The run is detached from the request context so a disconnecting client
// cannot leave profiles half-written. Concurrent triggers get 409.
func Run(runner Runner, gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.TryAcquire() {
			respondError(c, errBusy)
			return
		}
		defer gate.Release()

		slog.Info("run triggered", "client", c.ClientIP())
		resp := runner.Handle(context.WithoutCancel(c.Request.Context()))
		c.JSON(resp.StatusCode, resp)
	}
}
