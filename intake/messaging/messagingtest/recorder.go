// Package messagingtest provides an in-memory messaging.Gateway for tests.
package messagingtest

import (
	"context"
	"sync"

	"github.com/m3rciful/clanintake/intake/messaging"
)

// Kind tells which Gateway method produced a Sent record.
type Kind string

const (
	KindText  Kind = "text"
	KindPhoto Kind = "photo"
	KindClear Kind = "clear"
)

// Sent is one recorded gateway call.
type Sent struct {
	Kind   Kind
	ChatID int64
	Text   string
	Markup messaging.Markup
	Photo  messaging.Photo
	Ref    messaging.MessageRef
}

// Recorder records every call and can be told to fail for specific chats.
type Recorder struct {
	mu       sync.Mutex
	sent     []Sent
	nextID   int
	cleared  map[messaging.MessageRef]bool
	failFor  map[int64]error
	failKind map[Kind]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		cleared:  make(map[messaging.MessageRef]bool),
		failFor:  make(map[int64]error),
		failKind: make(map[Kind]error),
	}
}

// FailChat makes every send to chatID return err.
func (r *Recorder) FailChat(chatID int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failFor[chatID] = err
}

// FailKind makes every call of the given kind return err.
func (r *Recorder) FailKind(kind Kind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failKind[kind] = err
}

func (r *Recorder) failure(kind Kind, chatID int64) error {
	if err := r.failKind[kind]; err != nil {
		return err
	}
	return r.failFor[chatID]
}

// SendText implements messaging.Gateway.
func (r *Recorder) SendText(_ context.Context, chatID int64, text string, markup messaging.Markup) (messaging.MessageRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure(KindText, chatID); err != nil {
		return messaging.MessageRef{}, err
	}
	r.nextID++
	ref := messaging.MessageRef{ChatID: chatID, MessageID: r.nextID}
	r.sent = append(r.sent, Sent{Kind: KindText, ChatID: chatID, Text: text, Markup: markup, Ref: ref})
	return ref, nil
}

// SendPhoto implements messaging.Gateway.
func (r *Recorder) SendPhoto(_ context.Context, chatID int64, photo messaging.Photo, caption string) (messaging.MessageRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure(KindPhoto, chatID); err != nil {
		return messaging.MessageRef{}, err
	}
	r.nextID++
	ref := messaging.MessageRef{ChatID: chatID, MessageID: r.nextID}
	r.sent = append(r.sent, Sent{Kind: KindPhoto, ChatID: chatID, Text: caption, Photo: photo, Ref: ref})
	return ref, nil
}

// ClearActions implements messaging.Gateway. A second clear of the same
// message is recorded but reports messaging.ErrNotModified, like Telegram does.
func (r *Recorder) ClearActions(_ context.Context, ref messaging.MessageRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure(KindClear, ref.ChatID); err != nil {
		return err
	}
	r.sent = append(r.sent, Sent{Kind: KindClear, ChatID: ref.ChatID, Ref: ref})
	if r.cleared[ref] {
		return messaging.ErrNotModified
	}
	r.cleared[ref] = true
	return nil
}

// Sent returns a copy of all recorded calls.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

// To returns recorded sends (text and photo) addressed to chatID.
func (r *Recorder) To(chatID int64) []Sent {
	var out []Sent
	for _, s := range r.Sent() {
		if s.ChatID == chatID && s.Kind != KindClear {
			out = append(out, s)
		}
	}
	return out
}

// Cleared reports whether ClearActions succeeded for ref at least once.
func (r *Recorder) Cleared(ref messaging.MessageRef) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cleared[ref]
}

// Reset forgets recorded calls but keeps failure settings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
