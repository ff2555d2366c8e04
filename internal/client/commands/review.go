package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chesslog/internal/analysis"
	"chesslog/internal/client/display"
	"chesslog/internal/client/session"
	"chesslog/internal/core"
	"chesslog/internal/replay"
)

func (r *Registry) registerReviewCommands() {
	r.Register(&Command{
		Name:        "review",
		ShortName:   "v",
		Group:       "Review",
		Description: "Open a stored game read-only",
		Usage:       "review <key>",
		Handler:     reviewHandler,
	})
	r.Register(&Command{
		Name:        "jump",
		ShortName:   "j",
		Group:       "Review",
		Description: "Show the board after move N",
		Usage:       "jump <n>",
		Handler:     jumpHandler,
	})
	r.Register(&Command{
		Name:        "next",
		Group:       "Review",
		Description: "Step one move forward",
		Usage:       "next",
		Handler:     nextHandler,
	})
	r.Register(&Command{
		Name:        "prev",
		Group:       "Review",
		Description: "Step one move back",
		Usage:       "prev",
		Handler:     prevHandler,
	})
	r.Register(&Command{
		Name:        "values",
		Group:       "Review",
		Description: "Show material balance per exchange",
		Usage:       "values [key]",
		Handler:     valuesHandler,
	})
}

func reviewHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: review <key>")
	}
	key, err := core.ParseGameKey(args[0])
	if err != nil {
		return fmt.Errorf("invalid game key: %s", args[0])
	}

	dump, ok, err := s.Store.Lookup(key)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(s.Out, "%sGame %s not found%s\n", display.Yellow, key, display.Reset)
		return historyHandler(s, nil)
	}
	if err := s.Navigator.Load(dump); err != nil {
		return fmt.Errorf("load game %s: %w", key, err)
	}

	s.Mode, s.ReviewKey = session.ModeReview, key
	if err := pgnHandler(s, nil); err != nil {
		return err
	}
	return boardHandler(s, nil)
}

func requireReview(s *session.Session) error {
	if s.Mode != session.ModeReview || !s.Navigator.Loaded() {
		return fmt.Errorf("no game under review; use 'review <key>' first")
	}
	return nil
}

func jumpHandler(s *session.Session, args []string) error {
	if err := requireReview(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: jump <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid move number: %s", args[0])
	}

	// Move numbers are shown one based
	index := n - 1
	if !s.Navigator.CanJumpTo(index) {
		return fmt.Errorf("move %d out of range 1..%d", n, replay.ReadableIndex(s.Navigator.LastMoveIndex()))
	}
	if err := s.Navigator.JumpTo(index); err != nil {
		return err
	}
	return boardHandler(s, nil)
}

func nextHandler(s *session.Session, args []string) error {
	if err := requireReview(s); err != nil {
		return err
	}
	if !s.Navigator.CanJumpNext() {
		fmt.Fprintln(s.Out, "Already at the last move")
		return nil
	}
	if err := s.Navigator.JumpNext(); err != nil {
		return err
	}
	return boardHandler(s, nil)
}

func prevHandler(s *session.Session, args []string) error {
	if err := requireReview(s); err != nil {
		return err
	}
	if !s.Navigator.CanJumpPrevious() {
		fmt.Fprintln(s.Out, "Already at the first move")
		return nil
	}
	if err := s.Navigator.JumpPrevious(); err != nil {
		return err
	}
	return boardHandler(s, nil)
}

func valuesHandler(s *session.Session, args []string) error {
	key := s.ReviewKey
	if len(args) > 0 {
		k, err := core.ParseGameKey(args[0])
		if err != nil {
			return fmt.Errorf("invalid game key: %s", args[0])
		}
		key = k
	} else if s.Mode == session.ModeRecord {
		key = s.Recorder.Key()
	}
	if key == core.NoGameKey {
		return fmt.Errorf("usage: values <key>")
	}

	dump, ok, err := s.Store.Lookup(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, key)
	}
	series, err := analysis.AnalyzePGN(s.Factory, dump)
	if err != nil {
		return err
	}
	if len(series.Points) == 0 {
		fmt.Fprintln(s.Out, "No completed exchanges")
		return nil
	}

	fmt.Fprintf(s.Out, "%s%-6s %5s %5s  %s%s\n", display.Cyan, "Move", "White", "Black", "Balance", display.Reset)
	for i, p := range series.Points {
		diff := p.White - p.Black
		bar := ""
		switch {
		case diff > 0:
			bar = strings.Repeat("+", diff)
		case diff < 0:
			bar = strings.Repeat("-", -diff)
		}
		fmt.Fprintf(s.Out, "%-6d %5d %5d  %s\n", i+1, p.White, p.Black, bar)
	}
	return nil
}
