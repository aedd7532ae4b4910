package middleware

import (
	"github.com/m3rciful/clanintake/core/metrics"

	tele "gopkg.in/telebot.v4"
)

const handlerKey = "handler"

// SetHandlerName records which handler served the update for UpdateMetricsMiddleware.
func SetHandlerName(c tele.Context, name string) {
	c.Set(handlerKey, name)
}

// HandlerName returns the name stored by SetHandlerName, or "unhandled".
func HandlerName(c tele.Context) string {
	if v, ok := c.Get(handlerKey).(string); ok && v != "" {
		return v
	}
	return "unhandled"
}

// UpdateMetricsMiddleware counts handled updates by handler and status.
func UpdateMetricsMiddleware(m *metrics.Metrics) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c tele.Context) error {
			err := next(c)
			status := "ok"
			if err != nil {
				status = "fail"
			}
			m.Update(HandlerName(c), status)
			return err
		}
	}
}
