package review

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action is the reviewer's verdict.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var (
	// ErrMalformedToken means the payload is not "<action>:<applicantId>".
	ErrMalformedToken = errors.New("review: malformed correlation token")
	// ErrUnknownAction means the action part is neither approve nor reject.
	ErrUnknownAction = errors.New("review: unknown decision action")
)

// Token links a reviewer button back to the applicant. Its wire form is
// "<approve|reject>:<applicantId>" and is carried as raw callback data.
type Token struct {
	Action      Action
	ApplicantID int64
}

// String encodes the token in its wire form.
func (t Token) String() string {
	return string(t.Action) + ":" + strconv.FormatInt(t.ApplicantID, 10)
}

// ParseToken decodes the wire form. Only the canonical decimal form of the
// applicant id is accepted, so ParseToken(t.String()) == t for every token.
func ParseToken(raw string) (Token, error) {
	action, id, ok := strings.Cut(raw, ":")
	if !ok || action == "" || id == "" {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
	}

	a := Action(action)
	switch a {
	case ActionApprove, ActionReject:
	default:
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != id {
		return Token{}, fmt.Errorf("%w: applicant id %q", ErrMalformedToken, id)
	}
	return Token{Action: a, ApplicantID: n}, nil
}
