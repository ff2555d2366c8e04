// Package rules defines the chess rules capability the logger drives and an
// adapter over github.com/notnil/chess.
package rules

import "chesslog/internal/core"

// Engine is the rules capability consumed by the recorder, the transit
// session and the replay navigator. It owns legality, check detection and
// PGN serialization.
type Engine interface {
	// Get returns the occupant of sq, false if empty
	Get(sq core.Square) (core.Piece, bool)
	// Move attempts from->to with an optional promotion piece, reporting legality
	Move(from, to core.Square, promotion core.PieceType) bool
	// Undo takes back the last ply, false if there is none
	Undo() bool
	Turn() core.Color
	// History lists the played moves in SAN
	History() []string
	GameOver() bool
	InStalemate() bool
	InCheckmate() bool
	InDraw() bool
	PGN() string
	LoadPGN(pgn string) error
	Header(key, value string)
	HeaderValue(key string) string
	SquareColor(sq core.Square) string
	FEN() string
}

// Factory builds a fresh engine at the standard starting position
type Factory func() Engine

// DefaultFactory builds notnil backed engines
func DefaultFactory() Engine {
	return NewGame()
}

// ResolutionOf maps terminal engine flags to a resolution
func ResolutionOf(e Engine) core.Resolution {
	switch {
	case !e.GameOver():
		return core.ResolutionNone
	case e.InCheckmate():
		return core.ResolutionCheckmate
	case e.InStalemate():
		return core.ResolutionStalemate
	case e.InDraw():
		return core.ResolutionDraw
	default:
		return core.ResolutionDecided
	}
}

// Winner returns the side that won a finished game, false for draws and
// live games
func Winner(e Engine) (core.Color, bool) {
	switch ResolutionOf(e) {
	case core.ResolutionCheckmate:
		return core.OppositeColor(e.Turn()), true
	case core.ResolutionDecided:
		switch e.HeaderValue("Result") {
		case "1-0":
			return core.ColorWhite, true
		case "0-1":
			return core.ColorBlack, true
		}
	}
	return 0, false
}

// Validate reports whether raw parses as a game using a throwaway engine
func Validate(factory Factory, raw string) error {
	return factory().LoadPGN(raw)
}
