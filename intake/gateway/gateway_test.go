package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/clanintake/intake/messaging"

	tele "gopkg.in/telebot.v4"
)

type sendCall struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

type fakeAPI struct {
	sends   []sendCall
	edits   []tele.Editable
	sendErr error
	editErr error
	nextID  int
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.sends = append(f.sends, sendCall{to: to, what: what, opts: opts})
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	msg := &tele.Message{ID: f.nextID}
	if _, ok := what.(*tele.Photo); ok {
		msg.Photo = &tele.Photo{File: tele.File{FileID: "uploaded-id"}}
	}
	return msg, nil
}

func (f *fakeAPI) EditReplyMarkup(msg tele.Editable, _ *tele.ReplyMarkup) (*tele.Message, error) {
	f.edits = append(f.edits, msg)
	return nil, f.editErr
}

func TestMarkupConversion(t *testing.T) {
	if Markup(messaging.Markup{}) != nil {
		t.Fatalf("empty markup should be nil")
	}
	if rm := Markup(messaging.Markup{RemoveKeyboard: true}); rm == nil || !rm.RemoveKeyboard {
		t.Fatalf("remove keyboard lost")
	}
	rm := Markup(messaging.Markup{Actions: []messaging.Action{
		{Label: "✅ Одобрить", Token: "approve:42"},
		{Label: "❌ Отклонить", Token: "reject:42"},
	}})
	if len(rm.InlineKeyboard) != 1 || len(rm.InlineKeyboard[0]) != 2 {
		t.Fatalf("inline layout = %+v", rm.InlineKeyboard)
	}
	if rm.InlineKeyboard[0][1].Data != "reject:42" {
		t.Fatalf("token not carried: %+v", rm.InlineKeyboard[0][1])
	}
	reply := Markup(messaging.Markup{Reply: [][]string{{"✅ Да", "❌ Нет"}}})
	if len(reply.ReplyKeyboard) != 1 || reply.ReplyKeyboard[0][0].Text != "✅ Да" {
		t.Fatalf("reply layout = %+v", reply.ReplyKeyboard)
	}
}

func TestSendTextReturnsRef(t *testing.T) {
	api := &fakeAPI{}
	g := New(api, nil)
	ref, err := g.SendText(context.Background(), 42, "hi", messaging.Markup{})
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if ref.ChatID != 42 || ref.MessageID != 1 {
		t.Fatalf("ref = %+v", ref)
	}
	if len(api.sends[0].opts) != 0 {
		t.Fatalf("unexpected options: %+v", api.sends[0].opts)
	}
	if api.sends[0].to.Recipient() != "42" {
		t.Fatalf("recipient = %q", api.sends[0].to.Recipient())
	}
}

func TestSendPhotoCachesUpload(t *testing.T) {
	api := &fakeAPI{}
	g := New(api, nil)
	ctx := context.Background()

	if _, err := g.SendPhoto(ctx, 1, messaging.Photo{Path: "example.jpg"}, "cap"); err != nil {
		t.Fatalf("SendPhoto: %v", err)
	}
	if _, err := g.SendPhoto(ctx, 2, messaging.Photo{Path: "example.jpg"}, "cap"); err != nil {
		t.Fatalf("SendPhoto: %v", err)
	}
	first := api.sends[0].what.(*tele.Photo)
	second := api.sends[1].what.(*tele.Photo)
	if first.File.OnDisk() != true {
		t.Fatalf("first send should upload from disk")
	}
	if second.File.FileID != "uploaded-id" {
		t.Fatalf("second send should reuse file id, got %+v", second.File)
	}
	if second.Caption != "cap" {
		t.Fatalf("caption = %q", second.Caption)
	}
}

func TestSendPhotoByFileID(t *testing.T) {
	api := &fakeAPI{}
	g := New(api, nil)
	if _, err := g.SendPhoto(context.Background(), 1, messaging.Photo{FileID: "abc"}, ""); err != nil {
		t.Fatalf("SendPhoto: %v", err)
	}
	if got := api.sends[0].what.(*tele.Photo).File.FileID; got != "abc" {
		t.Fatalf("file id = %q", got)
	}
}

func TestErrorsAreRedactedAndClassified(t *testing.T) {
	api := &fakeAPI{sendErr: errors.New(`Post "https://api.telegram.org/bot123:ABC/sendMessage": telegram: Forbidden: bot was blocked by the user (403)`)}
	g := New(api, nil)
	_, err := g.SendText(context.Background(), 1, "x", messaging.Markup{})

	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("err = %T", err)
	}
	if gwErr.Kind != "forbidden" || gwErr.Method != "sendMessage" {
		t.Fatalf("err = %+v", gwErr)
	}
	if strings.Contains(err.Error(), "123:ABC") {
		t.Fatalf("token leaked: %s", err)
	}
}

func TestClearActions(t *testing.T) {
	api := &fakeAPI{}
	g := New(api, nil)
	ref := messaging.MessageRef{ChatID: 500, MessageID: 7}
	if err := g.ClearActions(context.Background(), ref); err != nil {
		t.Fatalf("ClearActions: %v", err)
	}
	id, chat := api.edits[0].MessageSig()
	if id != "7" || chat != 500 {
		t.Fatalf("edited %s in %d", id, chat)
	}

	api.editErr = errors.New("telegram: Bad Request: message is not modified (400)")
	if err := g.ClearActions(context.Background(), ref); !errors.Is(err, messaging.ErrNotModified) {
		t.Fatalf("err = %v, want ErrNotModified", err)
	}
}

var _ messaging.Gateway = (*Gateway)(nil)
