package api

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// streamEvents runs a watcher and forwards each snapshot as a server-sent
// event. Errors raised before the first event get a normal JSON error
// response; later ones end the stream with an "error" event. The watcher
// stops when the client disconnects and the request context is cancelled.
func streamEvents(c *gin.Context, logger *zap.Logger, watch func(send func(event string, data interface{}) error) error) {
	started := false
	send := func(event string, data interface{}) error {
		if !started {
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			started = true
		}
		c.SSEvent(event, data)
		c.Writer.Flush()
		return c.Request.Context().Err()
	}

	err := watch(send)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	if !started {
		respondError(c, logger, err)
		return
	}
	logger.Warn("event stream ended with error", zap.String("path", c.FullPath()), zap.Error(err))
	_, msg := statusFor(err)
	c.SSEvent("error", ErrorResponse{Error: msg})
	c.Writer.Flush()
}
