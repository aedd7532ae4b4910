// Package messaging describes what the intake workflow needs from a chat transport.
package messaging

import (
	"context"
	"errors"
)

// ErrNotModified is returned by ClearActions implementations that cannot tell
// "already cleared" apart from success. Callers treat it as success.
var ErrNotModified = errors.New("messaging: message not modified")

// Action is a selectable inline button; Token is delivered back verbatim when pressed.
type Action struct {
	Label string
	Token string
}

// Markup controls the keyboard attached to an outgoing message.
// At most one of Reply, RemoveKeyboard and Actions is expected to be set.
type Markup struct {
	// Reply lays out a reply keyboard, one slice per row.
	Reply [][]string
	// RemoveKeyboard hides a previously shown reply keyboard.
	RemoveKeyboard bool
	// Actions are shown as inline buttons in a single row.
	Actions []Action
}

// Photo is an image either already known to the transport (FileID) or a local file to upload.
type Photo struct {
	FileID string
	Path   string
}

// MessageRef addresses a message that was sent earlier.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Gateway delivers outbound messages. Every method returns the transport
// error as-is; callers decide whether it matters.
type Gateway interface {
	SendText(ctx context.Context, chatID int64, text string, markup Markup) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, photo Photo, caption string) (MessageRef, error)
	// ClearActions removes inline buttons from ref. Clearing twice is not an error.
	ClearActions(ctx context.Context, ref MessageRef) error
}
