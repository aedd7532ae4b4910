package form

import (
	"context"

	"github.com/m3rciful/clanintake/core/telegram/state"
)

// Form steps after StepNone, in the order they are asked.
const (
	StepAwaitingAge        state.Step = "awaiting_age"
	StepAwaitingGameID     state.Step = "awaiting_game_id"
	StepAwaitingScreenshot state.Step = "awaiting_screenshot"
)

// Answer keys stored in the session.
const (
	AnswerAge        = "age"
	AnswerGameID     = "game_id"
	AnswerScreenshot = "screenshot"
)

// Steps lists every step the machine can be in.
var Steps = []state.Step{
	state.StepNone,
	StepAwaitingAge,
	StepAwaitingGameID,
	StepAwaitingScreenshot,
}

type key struct {
	step state.Step
	kind Kind
}

// transition is one row of the table. apply mutates the session copy and runs
// before it is stored; effect performs the outbound messages afterwards.
type transition struct {
	name   string
	next   state.Step
	apply  func(s *state.Session, in Input)
	effect func(m *Machine, ctx context.Context, in Input, s state.Session) error
}

var table = buildTable()

func buildTable() map[key]transition {
	t := make(map[key]transition)

	for _, s := range Steps {
		t[key{s, KindStart}] = transition{
			name:   "start",
			next:   state.StepNone,
			apply:  resetAnswers,
			effect: (*Machine).promptConsent,
		}
		t[key{s, KindConsentNo}] = transition{
			name:   "decline",
			next:   state.StepNone,
			apply:  resetAnswers,
			effect: (*Machine).sendDeclined,
		}
	}

	t[key{state.StepNone, KindConsentYes}] = transition{
		name:   "consent",
		next:   StepAwaitingAge,
		effect: (*Machine).promptAge,
	}

	t[key{StepAwaitingAge, KindText}] = transition{
		name:   "age",
		next:   StepAwaitingGameID,
		apply:  storeText(AnswerAge),
		effect: (*Machine).promptGameID,
	}
	t[key{StepAwaitingAge, KindPhoto}] = reask("age.reask", StepAwaitingAge, (*Machine).reaskAge)
	t[key{StepAwaitingAge, KindOther}] = reask("age.reask", StepAwaitingAge, (*Machine).reaskAge)

	t[key{StepAwaitingGameID, KindText}] = transition{
		name:   "game_id",
		next:   StepAwaitingScreenshot,
		apply:  storeText(AnswerGameID),
		effect: (*Machine).promptScreenshot,
	}
	t[key{StepAwaitingGameID, KindPhoto}] = reask("game_id.reask", StepAwaitingGameID, (*Machine).reaskGameID)
	t[key{StepAwaitingGameID, KindOther}] = reask("game_id.reask", StepAwaitingGameID, (*Machine).reaskGameID)

	t[key{StepAwaitingScreenshot, KindPhoto}] = transition{
		name: "submit",
		next: state.StepNone,
		apply: func(s *state.Session, in Input) {
			s.Answers[AnswerScreenshot] = in.PhotoID
		},
		effect: (*Machine).complete,
	}
	t[key{StepAwaitingScreenshot, KindText}] = reask("screenshot.reask", StepAwaitingScreenshot, (*Machine).remindPhoto)
	t[key{StepAwaitingScreenshot, KindOther}] = reask("screenshot.reask", StepAwaitingScreenshot, (*Machine).remindPhoto)

	return t
}

func reask(name string, step state.Step, effect func(*Machine, context.Context, Input, state.Session) error) transition {
	return transition{name: name, next: step, effect: effect}
}

func resetAnswers(s *state.Session, _ Input) {
	s.Answers = make(map[string]string)
}

func storeText(answer string) func(*state.Session, Input) {
	return func(s *state.Session, in Input) {
		s.Answers[answer] = in.Text
	}
}

// lookup finds the row for (step, kind). The consent answer outside StepNone
// is ordinary text.
func lookup(step state.Step, kind Kind) (transition, bool) {
	if tr, ok := table[key{step, kind}]; ok {
		return tr, true
	}
	if kind == KindConsentYes {
		return lookup(step, KindText)
	}
	return transition{}, false
}

// Next reports the step reached from step on kind and the transition name.
// ok is false when the input is ignored at that step.
func Next(step state.Step, kind Kind) (next state.Step, name string, ok bool) {
	tr, ok := lookup(step, kind)
	if !ok {
		return step, "", false
	}
	return tr.next, tr.name, true
}
