package middleware

import (
	"context"
	"log/slog"

	"github.com/m3rciful/clanintake/core/logger"
	"github.com/m3rciful/clanintake/core/telegram/dispatch"

	tele "gopkg.in/telebot.v4"
)

// LanesMiddleware moves each update onto the dispatcher lane of its sender,
// so one user's updates run strictly in order while other users proceed.
// Errors returned by downstream handlers are logged on the lane.
func LanesMiddleware(d *dispatch.Dispatcher) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		if d == nil {
			return next
		}
		return func(c tele.Context) error {
			key := laneKey(c)
			err := d.Submit(context.Background(), key, "update", func(context.Context) {
				if err := next(c); err != nil {
					logger.TG.Warn("handler returned error",
						slog.String("event", "tg.handler.error"),
						slog.Int("update_id", c.Update().ID),
						slog.Int64("user_id", key),
						logger.Err(err),
					)
				}
			})
			if err != nil {
				logger.TG.Error("update dropped",
					slog.String("event", "tg.dispatch.rejected"),
					slog.Int("update_id", c.Update().ID),
					slog.Int64("user_id", key),
					logger.Err(err),
				)
			}
			return nil
		}
	}
}

func laneKey(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	if ch := c.Chat(); ch != nil {
		return ch.ID
	}
	return 0
}
