// Package transit drives the two-selection move protocol: pick up a piece,
// put it down, and pause for a piece choice when a pawn promotes.
package transit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chesslog/internal/core"
	"chesslog/internal/rules"
)

// Move is a committed or attempted move
type Move struct {
	From      core.Square
	To        core.Square
	Promotion core.PieceType
	SAN       string
}

// Result is the outcome of completing a transit
type Result struct {
	Move  Move
	Moved bool
	Err   error
}

// Session is the per-game transit state machine. It is driven by one caller
// at a time.
type Session struct {
	engine rules.Engine
	log    *zap.Logger

	origin    core.Square
	inTransit bool
	pending   *Pending

	onMove func(Result)
}

// NewSession binds a session to an engine
func NewSession(engine rules.Engine, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{engine: engine, log: log.Named("transit")}
}

// OnMove registers a hook called after every engine move attempt
func (s *Session) OnMove(fn func(Result)) {
	s.onMove = fn
}

func (s *Session) Engine() rules.Engine {
	return s.engine
}

// InTransit returns the selected origin square
func (s *Session) InTransit() (core.Square, bool) {
	return s.origin, s.inTransit
}

// IsPendingTransition reports whether sq is the piece currently in transit
func (s *Session) IsPendingTransition(sq core.Square) bool {
	return s.inTransit && s.origin == sq
}

// PendingPromotion returns the destination awaiting a piece choice
func (s *Session) PendingPromotion() (core.Square, bool) {
	if s.pending == nil {
		return core.Square{}, false
	}
	return s.pending.to, true
}

// Classify reports what selecting sq would mean right now
func (s *Session) Classify(sq core.Square) core.TransitionState {
	if s.inTransit {
		if sq == s.origin {
			return core.TransitionCancel
		}
		return core.TransitionValid
	}
	if p, ok := s.engine.Get(sq); ok && p.Color == s.engine.Turn() {
		return core.TransitionStart
	}
	return core.TransitionInvalid
}

// Advance applies a square selection. A VALID selection returns a Pending
// that is already resolved unless a pawn promotion needs a piece choice, in
// which case ResolvePromotion or Cancel settles it. While a promotion is
// pending only the origin square (cancel) is accepted.
func (s *Session) Advance(sq core.Square) (core.TransitionState, *Pending, error) {
	if !sq.Valid() {
		return core.TransitionInvalid, nil, fmt.Errorf("invalid square %v", sq)
	}

	if s.pending != nil {
		if sq == s.origin {
			s.Cancel()
			return core.TransitionCancel, nil, nil
		}
		return core.TransitionValid, nil, core.ErrPromotionPending
	}

	state := s.Classify(sq)
	switch state {
	case core.TransitionStart:
		s.origin, s.inTransit = sq, true
		s.log.Debug("transit started", zap.Stringer("square", sq))

	case core.TransitionCancel:
		s.clear()

	case core.TransitionValid:
		if s.isPromotion(sq) {
			s.pending = newPending(sq)
			s.log.Debug("promotion pending", zap.Stringer("from", s.origin), zap.Stringer("to", sq))
			return state, s.pending, nil
		}
		p := newPending(sq)
		p.resolve(s.complete(sq, core.NoPieceType))
		return state, p, nil
	}

	return state, nil, nil
}

// ResolvePromotion completes the pending promotion with the chosen piece
func (s *Session) ResolvePromotion(pt core.PieceType) (Result, error) {
	if s.pending == nil {
		return Result{}, core.ErrNoPromotionPending
	}
	switch pt {
	case core.Knight, core.Bishop, core.Rook, core.Queen:
	default:
		return Result{}, fmt.Errorf("%w: %q", core.ErrInvalidPromotion, pt.String())
	}

	p := s.pending
	res := s.complete(p.to, pt)
	p.resolve(res)
	return res, nil
}

// Cancel drops the piece in transit and rejects any pending promotion
func (s *Session) Cancel() {
	if s.pending != nil {
		p, from := s.pending, s.origin
		s.log.Debug("promotion cancelled", zap.Stringer("to", p.to))
		s.clear()
		p.resolve(Result{
			Move: Move{From: from, To: p.to},
			Err:  core.ErrPromotionCancelled,
		})
		return
	}
	s.clear()
}

// complete attempts the move and clears transit and promotion state
func (s *Session) complete(to core.Square, promotion core.PieceType) Result {
	from := s.origin
	s.clear()

	res := Result{Move: Move{From: from, To: to, Promotion: promotion}}
	res.Moved = s.engine.Move(from, to, promotion)
	if res.Moved {
		if history := s.engine.History(); len(history) > 0 {
			res.Move.SAN = history[len(history)-1]
		}
	}
	s.log.Debug("move attempted",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Bool("legal", res.Moved))

	if s.onMove != nil {
		s.onMove(res)
	}
	return res
}

func (s *Session) clear() {
	s.inTransit = false
	s.pending = nil
}

// isPromotion reports whether the piece in transit is a pawn reaching its last rank
func (s *Session) isPromotion(to core.Square) bool {
	p, ok := s.engine.Get(s.origin)
	if !ok || p.Type != core.Pawn {
		return false
	}
	return (p.Color == core.ColorBlack && to.Rank == 1) ||
		(p.Color == core.ColorWhite && to.Rank == 8)
}

// TransitionMessage describes what selecting sq would do
func (s *Session) TransitionMessage(sq core.Square) string {
	switch s.Classify(sq) {
	case core.TransitionCancel:
		return "Cancels move"
	case core.TransitionValid:
		return fmt.Sprintf("Sets piece on %s, from %s", sq, s.origin)
	case core.TransitionStart:
		return fmt.Sprintf("Starts move of piece %s", sq)
	default:
		return fmt.Sprintf("Invalid start; currently %s's turn to move.", s.engine.Turn().Name())
	}
}

// TurnName is "White" or "Black"
func (s *Session) TurnName() string {
	return s.engine.Turn().Name()
}

// WasCheck reports whether the last move gave check
func (s *Session) WasCheck() bool {
	history := s.engine.History()
	return len(history) > 0 && strings.Contains(history[len(history)-1], "+")
}

// PossiblePromotions lists the promotion choices for a side
func PossiblePromotions(c core.Color) []core.Piece {
	order := []core.PieceType{core.Knight, core.Rook, core.Queen, core.Bishop}
	pieces := make([]core.Piece, len(order))
	for i, pt := range order {
		pieces[i] = core.Piece{Type: pt, Color: c}
	}
	return pieces
}
