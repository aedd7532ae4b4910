package telegram

import (
	"github.com/m3rciful/clanintake/core/metrics"
	"github.com/m3rciful/clanintake/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain applied after the
// lane middleware that RunTelegram always installs.
func DefaultMiddlewares(m *metrics.Metrics) []Middleware {
	return []Middleware{
		{Name: "metrics", Use: middleware.UpdateMetricsMiddleware(m)},
	}
}
