// Package analysis derives the material balance after every exchange of a game
package analysis

import (
	"slices"

	"chesslog/internal/core"
	"chesslog/internal/rules"
)

var pieceValues = map[core.PieceType]int{
	core.Pawn:   1,
	core.Knight: 3,
	core.Bishop: 3,
	core.Rook:   5,
	core.Queen:  9,
}

// Point is the material each side holds at one moment
type Point struct {
	White int
	Black int
}

// Series is the per-exchange material history in chronological order
type Series struct {
	Points []Point
	// PercentStep is the width of one exchange on a 0..100 axis
	PercentStep float64
}

// Material sums piece values on the board; kings are not counted
func Material(e rules.Engine) Point {
	var p Point
	for _, sq := range core.AllSquares() {
		piece, ok := e.Get(sq)
		if !ok {
			continue
		}
		if piece.Color == core.ColorWhite {
			p.White += pieceValues[piece.Type]
		} else {
			p.Black += pieceValues[piece.Type]
		}
	}
	return p
}

// Analyze walks e back to the start one exchange at a time. It consumes e:
// the engine is left with no moves.
func Analyze(e rules.Engine) Series {
	if len(e.History())%2 == 1 {
		e.Undo()
	}

	var points []Point
	for len(e.History()) > 0 {
		points = append(points, Material(e))
		e.Undo()
		e.Undo()
	}

	slices.Reverse(points)

	s := Series{Points: points}
	if len(points) > 0 {
		s.PercentStep = 100 / float64(len(points))
	}
	return s
}

// AnalyzePGN loads dump into a fresh engine and analyzes it
func AnalyzePGN(factory rules.Factory, dump string) (Series, error) {
	e := factory()
	if err := e.LoadPGN(dump); err != nil {
		return Series{}, err
	}
	return Analyze(e), nil
}
