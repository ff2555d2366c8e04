package core

// TransitionState classifies what selecting a square means for the current
// transit and turn
type TransitionState int

const (
	TransitionStart TransitionState = iota
	TransitionValid
	TransitionInvalid
	TransitionCancel
)

func (t TransitionState) String() string {
	switch t {
	case TransitionStart:
		return "start"
	case TransitionValid:
		return "valid"
	case TransitionInvalid:
		return "invalid"
	case TransitionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Resolution is how a game ended, if it did
type Resolution int

const (
	ResolutionNone Resolution = iota
	ResolutionCheckmate
	ResolutionStalemate
	ResolutionDraw
	// ResolutionDecided is a decisive result recorded without mate, such as a resignation
	ResolutionDecided
)

func (r Resolution) String() string {
	switch r {
	case ResolutionCheckmate:
		return "Checkmate"
	case ResolutionStalemate:
		return "Stalemate"
	case ResolutionDraw:
		return "Draw"
	case ResolutionDecided:
		return "Decided"
	default:
		return ""
	}
}

// Message returns the user facing game over line, or "" for a live game
func (r Resolution) Message() string {
	if r == ResolutionNone {
		return ""
	}
	return "Game Over: " + r.String()
}
