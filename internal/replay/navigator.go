// Package replay scrubs through a recorded game without touching the stored
// dump. An immutable copy of the game is kept next to a working copy; jumping
// forward reloads the working copy and undoes down to the target.
package replay

import (
	"fmt"

	"go.uber.org/zap"

	"chesslog/internal/pgntext"
	"chesslog/internal/rules"
)

// Navigator holds the review state of one loaded game
type Navigator struct {
	factory  rules.Factory
	log      *zap.Logger
	original rules.Engine
	dynamic  rules.Engine
	cursor   int
	loaded   bool
}

func NewNavigator(factory rules.Factory, log *zap.Logger) *Navigator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Navigator{factory: factory, log: log.Named("replay"), cursor: -1}
}

// Load parses dump into both copies and moves the cursor to the last move
func (n *Navigator) Load(dump string) error {
	original := n.factory()
	if err := original.LoadPGN(dump); err != nil {
		return err
	}
	dynamic := n.factory()
	if err := dynamic.LoadPGN(dump); err != nil {
		return err
	}

	n.original, n.dynamic, n.loaded = original, dynamic, true
	n.cursor = n.LastMoveIndex()
	return nil
}

// Loaded reports whether a game is loaded
func (n *Navigator) Loaded() bool {
	return n.loaded
}

// LastMoveIndex is the index of the final ply of the original game, -1 when
// there are no moves
func (n *Navigator) LastMoveIndex() int {
	if !n.loaded {
		return -1
	}
	return len(n.original.History()) - 1
}

// Cursor is the index of the ply the board currently shows
func (n *Navigator) Cursor() int {
	return n.cursor
}

func (n *Navigator) CanJumpTo(index int) bool {
	return n.loaded && index >= 0 && index <= n.LastMoveIndex()
}

func (n *Navigator) CanJumpPrevious() bool {
	return n.CanJumpTo(n.cursor - 1)
}

func (n *Navigator) CanJumpNext() bool {
	return n.CanJumpTo(n.cursor + 1)
}

// JumpTo shows the board after ply index. Out of range targets are ignored.
func (n *Navigator) JumpTo(index int) error {
	if !n.CanJumpTo(index) {
		return nil
	}

	if index > len(n.dynamic.History())-1 {
		dynamic := n.factory()
		if err := dynamic.LoadPGN(n.original.PGN()); err != nil {
			return fmt.Errorf("reload for jump to %d: %w", index, err)
		}
		n.dynamic = dynamic
	}

	for len(n.dynamic.History()) > index+1 {
		if !n.dynamic.Undo() {
			return fmt.Errorf("undo failed at ply %d", len(n.dynamic.History()))
		}
	}

	n.log.Debug("jumped", zap.Int("from", n.cursor), zap.Int("to", index))
	n.cursor = index
	return nil
}

func (n *Navigator) JumpPrevious() error {
	if !n.CanJumpPrevious() {
		return nil
	}
	return n.JumpTo(n.cursor - 1)
}

func (n *Navigator) JumpNext() error {
	if !n.CanJumpNext() {
		return nil
	}
	return n.JumpTo(n.cursor + 1)
}

// Board is the working copy positioned at the cursor
func (n *Navigator) Board() rules.Engine {
	return n.dynamic
}

// Original is the unmodified loaded game
func (n *Navigator) Original() rules.Engine {
	return n.original
}

// MoveNumber is the number of plies shown
func (n *Navigator) MoveNumber() int {
	if !n.loaded {
		return 0
	}
	return len(n.dynamic.History())
}

// ExchangeNumber is the number of full move pairs shown
func (n *Navigator) ExchangeNumber() int {
	return n.MoveNumber() / 2
}

// ReadableIndex converts a ply index to the one based form shown to users
func ReadableIndex(index int) int {
	return index + 1
}

// Formatted splits the original game into header and move lines
func (n *Navigator) Formatted() (metadata, moves []string) {
	if !n.loaded {
		return []string{}, []string{}
	}
	return pgntext.Split(pgntext.LineBreakify(n.original.PGN()))
}
