package router

import (
	"time"

	tg "github.com/m3rciful/clanintake/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// MessageOptions routes inbound messages by content type. Nil handlers leave
// the corresponding updates unhandled.
type MessageOptions struct {
	Text  tele.HandlerFunc
	Photo tele.HandlerFunc
	// Other receives documents, stickers and other media.
	Other tele.HandlerFunc
}

var otherEndpoints = []string{
	tele.OnDocument,
	tele.OnSticker,
	tele.OnVideo,
	tele.OnVoice,
	tele.OnAudio,
	tele.OnAnimation,
	tele.OnVideoNote,
	tele.OnContact,
	tele.OnLocation,
}

// MessageRoutes builds the routes for plain chat messages.
func MessageRoutes(opts MessageOptions) []tg.Route {
	var routes []tg.Route
	add := func(endpoint, name string, h tele.HandlerFunc) {
		if h == nil {
			return
		}
		routes = append(routes, tg.Route{
			Endpoint: endpoint,
			Handler: wrap(func(c tele.Context) error {
				return handleWithSummary(c, name, time.Now(), func() error { return h(c) })
			}),
		})
	}

	add(tele.OnText, "message.text", opts.Text)
	add(tele.OnPhoto, "message.photo", opts.Photo)
	for _, ep := range otherEndpoints {
		add(ep, "message.other", opts.Other)
	}
	return routes
}
