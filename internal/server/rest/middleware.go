package rest

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/labstack/echo/v4"
)

// requestLogger writes one line per request. Handler errors are rendered here
// so the logged status is the one sent to the client.
func requestLogger(l logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			l.Info(req.Context(), "request completed",
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
