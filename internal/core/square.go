package core

import "fmt"

// Square is an algebraic board coordinate, file a..h and rank 1..8
type Square struct {
	File byte
	Rank int
}

// ParseSquare parses coordinates like "e4"
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	file := s[0]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	sq := Square{File: file, Rank: int(s[1] - '0')}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	return sq, nil
}

// MustSquare panics on malformed input; for tables and tests
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (s Square) Valid() bool {
	return s.File >= 'a' && s.File <= 'h' && s.Rank >= 1 && s.Rank <= 8
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", s.File, s.Rank)
}

// FileIndex and RankIndex are zero based, a1 is (0, 0)
func (s Square) FileIndex() int { return int(s.File - 'a') }
func (s Square) RankIndex() int { return s.Rank - 1 }

// IsLight reports the square colour; a1 is dark
func (s Square) IsLight() bool {
	return (s.FileIndex()+s.RankIndex())%2 == 1
}

// AllSquares lists the board from a1 to h8, rank by rank
func AllSquares() []Square {
	squares := make([]Square, 0, 64)
	for rank := 1; rank <= 8; rank++ {
		for file := byte('a'); file <= 'h'; file++ {
			squares = append(squares, Square{File: file, Rank: rank})
		}
	}
	return squares
}
