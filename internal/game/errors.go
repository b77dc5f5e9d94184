package game

import "errors"

// Rejection kinds. Every rejected operation leaves the session unchanged.
var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrIllegalAction = errors.New("illegal action")
	ErrInvalidTarget = errors.New("invalid target")
	ErrGameOver      = errors.New("game is over")
)

// ActionError reports which precondition an operation violated.
type ActionError struct {
	Kind   error  // ErrIllegalMove, ErrIllegalAction or ErrInvalidTarget
	Op     string // move, attack, area_attack, defend, end_turn
	Reason string
	Err    error // Underlying cause, if any
}

func (e *ActionError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap exposes the kind and cause to errors.Is. An invalid target is also
// an illegal action.
func (e *ActionError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Kind == ErrInvalidTarget {
		errs = append(errs, ErrIllegalAction)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func illegalMove(reason string) error {
	return &ActionError{Kind: ErrIllegalMove, Op: "move", Reason: reason}
}

func illegalAction(op, reason string) error {
	return &ActionError{Kind: ErrIllegalAction, Op: op, Reason: reason}
}

func invalidTarget(op, reason string) error {
	return &ActionError{Kind: ErrInvalidTarget, Op: op, Reason: reason}
}

func gameOver(kind error, op string) error {
	return &ActionError{Kind: kind, Op: op, Reason: "no actions after game over", Err: ErrGameOver}
}
