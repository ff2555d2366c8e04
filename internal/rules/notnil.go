package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"chesslog/internal/core"
)

// Game adapts a notnil chess.Game to Engine
type Game struct {
	game *chess.Game
}

var _ Engine = (*Game)(nil)

func NewGame() *Game {
	return &Game{game: chess.NewGame()}
}

func toSquare(sq core.Square) chess.Square {
	return chess.Square(sq.RankIndex()*8 + sq.FileIndex())
}

func fromPieceType(pt chess.PieceType) core.PieceType {
	switch pt {
	case chess.King:
		return core.King
	case chess.Queen:
		return core.Queen
	case chess.Rook:
		return core.Rook
	case chess.Bishop:
		return core.Bishop
	case chess.Knight:
		return core.Knight
	case chess.Pawn:
		return core.Pawn
	default:
		return core.NoPieceType
	}
}

func fromColor(c chess.Color) core.Color {
	if c == chess.Black {
		return core.ColorBlack
	}
	return core.ColorWhite
}

func (g *Game) Get(sq core.Square) (core.Piece, bool) {
	if !sq.Valid() {
		return core.Piece{}, false
	}
	p := g.game.Position().Board().Piece(toSquare(sq))
	if p == chess.NoPiece {
		return core.Piece{}, false
	}
	return core.Piece{Type: fromPieceType(p.Type()), Color: fromColor(p.Color())}, true
}

func (g *Game) Move(from, to core.Square, promotion core.PieceType) bool {
	if !from.Valid() || !to.Valid() || g.game.Outcome() != chess.NoOutcome {
		return false
	}
	uci := from.String() + to.String() + promotion.String()
	m, err := chess.UCINotation{}.Decode(g.game.Position(), uci)
	if err != nil {
		return false
	}
	return g.game.Move(m) == nil
}

// Undo rebuilds the game from its root position without the last move;
// notnil has no native take-back
func (g *Game) Undo() bool {
	n := len(g.game.Moves())
	if n == 0 {
		return false
	}
	next, err := g.replay(n - 1)
	if err != nil {
		return false
	}
	g.game = next
	return true
}

func (g *Game) replay(plies int) (*chess.Game, error) {
	positions := g.game.Positions()
	moves := g.game.Moves()

	fen, err := chess.FEN(positions[0].String())
	if err != nil {
		return nil, fmt.Errorf("root position: %w", err)
	}
	next := chess.NewGame(fen)
	for _, tag := range g.game.TagPairs() {
		next.AddTagPair(tag.Key, tag.Value)
	}

	uci := chess.UCINotation{}
	for i := 0; i < plies; i++ {
		encoded := uci.Encode(positions[i], moves[i])
		m, err := uci.Decode(next.Position(), encoded)
		if err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
		if err := next.Move(m); err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
	}
	return next, nil
}

func (g *Game) Turn() core.Color {
	return fromColor(g.game.Position().Turn())
}

func (g *Game) History() []string {
	moves := g.game.Moves()
	positions := g.game.Positions()
	san := make([]string, len(moves))
	for i, m := range moves {
		san[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return san
}

func (g *Game) GameOver() bool {
	return g.game.Outcome() != chess.NoOutcome
}

func (g *Game) InStalemate() bool {
	return g.game.Method() == chess.Stalemate
}

func (g *Game) InCheckmate() bool {
	return g.game.Method() == chess.Checkmate
}

func (g *Game) InDraw() bool {
	return g.game.Outcome() == chess.Draw
}

func (g *Game) PGN() string {
	return g.game.String()
}

func (g *Game) LoadPGN(pgn string) error {
	if strings.TrimSpace(pgn) == "" {
		return core.ErrEmptyPGN
	}
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidPGN, err)
	}
	g.game = chess.NewGame(opt)
	return nil
}

func (g *Game) Header(key, value string) {
	g.game.AddTagPair(key, value)
}

func (g *Game) HeaderValue(key string) string {
	if tag := g.game.GetTagPair(key); tag != nil {
		return tag.Value
	}
	return ""
}

func (g *Game) SquareColor(sq core.Square) string {
	if sq.IsLight() {
		return "light"
	}
	return "dark"
}

func (g *Game) FEN() string {
	return g.game.Position().String()
}
