package core

import (
	"strconv"
	"time"
)

// GameKey identifies a stored game. It is the creation time in milliseconds
// since the epoch; NoGameKey means "no game yet".
type GameKey int64

const NoGameKey GameKey = 0

// NewGameKey derives a key from the game's creation time
func NewGameKey(now time.Time) GameKey {
	return GameKey(now.UnixMilli())
}

// ParseGameKey parses the decimal form used as a storage map key
func ParseGameKey(s string) (GameKey, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NoGameKey, err
	}
	return GameKey(n), nil
}

func (k GameKey) String() string {
	return strconv.FormatInt(int64(k), 10)
}

// Time returns the creation time encoded in the key
func (k GameKey) Time() time.Time {
	return time.UnixMilli(int64(k)).UTC()
}

// DateHeader formats the PGN Date header for a game created at key, as
// year-month-day in UTC without zero padding
func (k GameKey) DateHeader() string {
	t := k.Time()
	return strconv.Itoa(t.Year()) + "-" + strconv.Itoa(int(t.Month())) + "-" + strconv.Itoa(t.Day())
}

type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// Name returns "White" or "Black"
func (c Color) Name() string {
	if c == ColorBlack {
		return "Black"
	}
	return "White"
}

func (c Color) String() string {
	return string(c)
}

type PieceType byte

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 'p'
	Knight      PieceType = 'n'
	Bishop      PieceType = 'b'
	Rook        PieceType = 'r'
	Queen       PieceType = 'q'
	King        PieceType = 'k'
)

// ParsePieceType accepts the single letter form in either case
func ParsePieceType(s string) (PieceType, bool) {
	if len(s) != 1 {
		return NoPieceType, false
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	switch pt := PieceType(c); pt {
	case Pawn, Knight, Bishop, Rook, Queen, King:
		return pt, true
	}
	return NoPieceType, false
}

func (p PieceType) String() string {
	if p == NoPieceType {
		return ""
	}
	return string(p)
}

// Name returns the English piece name
func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return ""
	}
}

// Piece is the occupant of a square
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Symbol returns the FEN letter, uppercase for white
func (p Piece) Symbol() string {
	s := p.Type.String()
	if p.Color == ColorWhite && s != "" {
		return string(s[0] - ('a' - 'A'))
	}
	return s
}
