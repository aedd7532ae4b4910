package form

import (
	"strings"

	"github.com/m3rciful/clanintake/intake/review"
)

// Kind is the classification of an inbound message that drives the table.
type Kind string

const (
	KindStart      Kind = "start"
	KindConsentYes Kind = "consent_yes"
	KindConsentNo  Kind = "consent_no"
	KindText       Kind = "text"
	KindPhoto      Kind = "photo"
	KindOther      Kind = "other"
)

// Input is one inbound message from a chat user.
type Input struct {
	Kind   Kind
	ChatID int64
	From   review.Applicant
	Text   string
	// PhotoID is the transport reference of the largest photo size.
	PhotoID string
}

// ClassifyText maps a text message to its input kind. Triggers are matched
// on the trimmed text; any other non-empty text, whitespace included, is
// free text.
func ClassifyText(text string) Kind {
	t := strings.TrimSpace(text)
	switch {
	case text == "":
		return KindOther
	case t == ConsentYes:
		return KindConsentYes
	case t == ConsentNo:
		return KindConsentNo
	case isStartCommand(t):
		return KindStart
	default:
		return KindText
	}
}

func isStartCommand(t string) bool {
	cmd, _, _ := strings.Cut(t, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == "/start"
}

// TextInput builds a classified text input. Text is kept as sent.
func TextInput(from review.Applicant, chatID int64, text string) Input {
	return Input{Kind: ClassifyText(text), ChatID: chatID, From: from, Text: text}
}

// PhotoInput builds a photo input referencing fileID.
func PhotoInput(from review.Applicant, chatID int64, fileID string) Input {
	return Input{Kind: KindPhoto, ChatID: chatID, From: from, PhotoID: fileID}
}

// StartInput builds the start trigger input.
func StartInput(from review.Applicant, chatID int64) Input {
	return Input{Kind: KindStart, ChatID: chatID, From: from}
}

// OtherInput builds an input for documents, stickers and other media.
func OtherInput(from review.Applicant, chatID int64) Input {
	return Input{Kind: KindOther, ChatID: chatID, From: from}
}
