// Package app holds the submission lifecycle: a single immutable State
// updated by the pure Reduce function, and Exchange, which runs the gateway
// call and turns every outcome into a result.
package app

import (
	"errors"
	"fmt"

	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/result"
)

var (
	// ErrBusy rejects submit and clear while a submission is in flight
	ErrBusy = errors.New("a submission is already in progress")
	// ErrNotSubmitting rejects a settle with no submission in flight
	ErrNotSubmitting = errors.New("no submission in progress")
)

// Phase of the submission lifecycle
type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is everything the UI shows. Loading is true exactly while Phase is Submitting.
type State struct {
	Form    form.State
	Result  result.Result
	Loading bool
	Phase   Phase

	initial form.State
}

// NewState starts idle with the form's initial values
func NewState(f *form.Form) State {
	return State{
		Form:    f.Initial(),
		Result:  result.Empty(),
		Phase:   Idle,
		initial: f.Initial(),
	}
}

// Action is one user or network event
type Action interface {
	isAction()
}

// SetField edits one form value
type SetField struct {
	Name  string
	Value string
}

// Submit starts a submission
type Submit struct{}

// Settle delivers the result of the in-flight submission
type Settle struct {
	Result result.Result
}

// Clear resets the form and the result
type Clear struct{}

// Restore replaces the form values, used when replaying a history entry
type Restore struct {
	Values map[string]string
	Result result.Result
}

func (SetField) isAction() {}
func (Submit) isAction()   {}
func (Settle) isAction()   {}
func (Clear) isAction()    {}
func (Restore) isAction()  {}

// Reduce applies an action. On error the returned state is the input state.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case SetField:
		next, err := s.Form.SetField(a.Name, a.Value)
		if err != nil {
			return s, err
		}
		s.Form = next
		return s, nil

	case Submit:
		if s.Loading {
			return s, ErrBusy
		}
		s.Phase = Submitting
		s.Loading = true
		return s, nil

	case Settle:
		if s.Phase != Submitting {
			return s, ErrNotSubmitting
		}
		s.Result = a.Result
		s.Loading = false
		if a.Result.IsError() {
			s.Phase = Failed
		} else {
			s.Phase = Succeeded
		}
		return s, nil

	case Clear:
		if s.Loading {
			return s, ErrBusy
		}
		s.Form = s.initial
		s.Result = result.Empty()
		s.Phase = Idle
		return s, nil

	case Restore:
		if s.Loading {
			return s, ErrBusy
		}
		next := s.initial
		for name, value := range a.Values {
			var err error
			// values from older form layouts are skipped
			if next, err = next.SetField(name, value); err != nil {
				var unknown *form.UnknownFieldError
				if !errors.As(err, &unknown) {
					return s, err
				}
			}
		}
		s.Form = next
		s.Result = a.Result
		s.Phase = Idle
		return s, nil

	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
}
