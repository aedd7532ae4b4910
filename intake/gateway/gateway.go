// Package gateway implements messaging.Gateway on top of telebot.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/m3rciful/clanintake/core/metrics"
	"github.com/m3rciful/clanintake/core/telegram/keyboard"
	"github.com/m3rciful/clanintake/core/telegram/netutil"
	"github.com/m3rciful/clanintake/intake/messaging"

	tele "gopkg.in/telebot.v4"
)

// API is the subset of *tele.Bot the gateway calls.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
}

// Error wraps a failed Bot API call. Its message has the bot token redacted.
type Error struct {
	Method string
	Kind   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s (%s): %s", e.Method, e.Kind, netutil.Redact(e.Err.Error()))
}

func (e *Error) Unwrap() error { return e.Err }

// Gateway sends through the Bot API. Local photos are uploaded once and then
// resent by file id.
type Gateway struct {
	api     API
	metrics *metrics.Metrics

	mu       sync.Mutex
	uploaded map[string]string
}

// New wraps api; m may be nil.
func New(api API, m *metrics.Metrics) *Gateway {
	return &Gateway{api: api, metrics: m, uploaded: make(map[string]string)}
}

// SendText implements messaging.Gateway.
func (g *Gateway) SendText(_ context.Context, chatID int64, text string, markup messaging.Markup) (messaging.MessageRef, error) {
	var opts []interface{}
	if rm := Markup(markup); rm != nil {
		opts = append(opts, rm)
	}
	msg, err := g.api.Send(tele.ChatID(chatID), text, opts...)
	if err != nil {
		return messaging.MessageRef{}, g.fail("sendMessage", err)
	}
	return ref(chatID, msg), nil
}

// SendPhoto implements messaging.Gateway.
func (g *Gateway) SendPhoto(_ context.Context, chatID int64, photo messaging.Photo, caption string) (messaging.MessageRef, error) {
	p := &tele.Photo{Caption: caption}
	switch {
	case photo.FileID != "":
		p.File = tele.File{FileID: photo.FileID}
	case photo.Path != "":
		if id := g.cachedFileID(photo.Path); id != "" {
			p.File = tele.File{FileID: id}
		} else {
			p.File = tele.FromDisk(photo.Path)
		}
	default:
		return messaging.MessageRef{}, g.fail("sendPhoto", errors.New("photo has neither file id nor path"))
	}

	msg, err := g.api.Send(tele.ChatID(chatID), p)
	if err != nil {
		return messaging.MessageRef{}, g.fail("sendPhoto", err)
	}
	if photo.FileID == "" && msg != nil && msg.Photo != nil && msg.Photo.FileID != "" {
		g.remember(photo.Path, msg.Photo.FileID)
	}
	return ref(chatID, msg), nil
}

// ClearActions implements messaging.Gateway. Telegram's "message is not
// modified" answer is reported as messaging.ErrNotModified.
func (g *Gateway) ClearActions(_ context.Context, r messaging.MessageRef) error {
	stored := tele.StoredMessage{MessageID: strconv.Itoa(r.MessageID), ChatID: r.ChatID}
	if _, err := g.api.EditReplyMarkup(stored, nil); err != nil {
		if netutil.IsNotModified(err) {
			return messaging.ErrNotModified
		}
		return g.fail("editMessageReplyMarkup", err)
	}
	return nil
}

func (g *Gateway) fail(method string, err error) error {
	g.metrics.GatewayFailure(method)
	return &Error{Method: method, Kind: netutil.Classify(err), Err: err}
}

func (g *Gateway) cachedFileID(path string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.uploaded[path]
}

func (g *Gateway) remember(path, fileID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.uploaded[path] = fileID
}

func ref(chatID int64, msg *tele.Message) messaging.MessageRef {
	r := messaging.MessageRef{ChatID: chatID}
	if msg != nil {
		r.MessageID = msg.ID
	}
	return r
}

// Markup converts the transport-neutral markup; nil means no markup at all.
func Markup(m messaging.Markup) *tele.ReplyMarkup {
	switch {
	case len(m.Actions) > 0:
		buttons := make([]keyboard.InlineBtn, 0, len(m.Actions))
		for _, a := range m.Actions {
			buttons = append(buttons, keyboard.InlineBtn{Text: a.Label, Data: a.Token})
		}
		return keyboard.InlineRow(buttons...)
	case len(m.Reply) > 0:
		return keyboard.ReplyButtons(m.Reply...)
	case m.RemoveKeyboard:
		return keyboard.RemoveKeyboard()
	}
	return nil
}
