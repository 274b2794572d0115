// Package domain contains the frame controller: it dispatches a frame
// interaction to the minting flow and picks the view to show next.
package domain

import (
	"github.com/pendergraft/framemint/internal/views"
)

// Action is the value of the action query parameter.
type Action string

// Frame actions. ActionSubmit is the empty action sent by the Initial view.
const (
	ActionSubmit  Action = ""
	ActionReload  Action = "reload"
	ActionRefresh Action = "refresh"
)

// ParseAction maps a query value to an Action. Unknown values are treated
// as a submission, like an absent parameter.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionReload, ActionRefresh:
		return Action(s)
	}
	return ActionSubmit
}

// String returns the metric label for the action.
func (a Action) String() string {
	if a == ActionSubmit {
		return "submit"
	}
	return string(a)
}

// Packet is the frame packet posted by the client. The untrusted fields are
// only used when validation is disabled.
type Packet struct {
	FID          int64
	ButtonIndex  int
	InputText    string
	MessageBytes string
}

// Message is the validated content of a frame packet.
type Message struct {
	FID    int64
	Input  string
	Button int
}

// Result is the view to render and, when the view is an error view or
// a degraded success, the error that led to it.
type Result struct {
	View views.Frame
	Err  error
}
