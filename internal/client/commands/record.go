package commands

import (
	"errors"
	"fmt"
	"strings"

	"chesslog/internal/client/display"
	"chesslog/internal/client/session"
	"chesslog/internal/core"
	"chesslog/internal/export"
	"chesslog/internal/transit"
)

func (r *Registry) registerRecordCommands() {
	r.Register(&Command{
		Name:        "record",
		ShortName:   "r",
		Group:       "Record",
		Description: "Record a new game or continue a stored one",
		Usage:       "record [key]",
		Handler:     recordHandler,
	})
	r.Register(&Command{
		Name:        "select",
		ShortName:   "s",
		Group:       "Record",
		Description: "Pick up the piece on a square, or put it down",
		Usage:       "select <square>",
		Handler:     selectHandler,
	})
	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Group:       "Record",
		Description: "Move a piece in one step",
		Usage:       "move <from> <to> [n|b|r|q]",
		Handler:     moveHandler,
	})
	r.Register(&Command{
		Name:        "promote",
		ShortName:   "p",
		Group:       "Record",
		Description: "Choose the piece for a pending promotion",
		Usage:       "promote <n|r|q|b>",
		Handler:     promoteHandler,
	})
	r.Register(&Command{
		Name:        "cancel",
		ShortName:   "c",
		Group:       "Record",
		Description: "Drop the selected piece",
		Usage:       "cancel",
		Handler:     cancelHandler,
	})
	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Group:       "Record",
		Description: "Take back the last move",
		Usage:       "undo",
		Handler:     undoHandler,
	})
	r.Register(&Command{
		Name:        "board",
		ShortName:   "b",
		Group:       "Record",
		Description: "Show the board",
		Usage:       "board",
		Handler:     boardHandler,
	})
	r.Register(&Command{
		Name:        "pgn",
		Group:       "Record",
		Description: "Show the game as PGN",
		Usage:       "pgn",
		Handler:     pgnHandler,
	})
	r.Register(&Command{
		Name:        "names",
		ShortName:   "n",
		Group:       "Record",
		Description: "Set player names",
		Usage:       "names <white> <black>",
		Handler:     namesHandler,
	})
	r.Register(&Command{
		Name:        "export",
		ShortName:   "e",
		Group:       "Record",
		Description: "Write the game to a text file",
		Usage:       "export [dir]",
		Handler:     exportHandler,
	})
	r.Register(&Command{
		Name:        "theme",
		Group:       "Utility",
		Description: "Set board color theme",
		Usage:       "theme <off|brown|green|gray>",
		Handler:     themeHandler,
	})
	r.Register(&Command{
		Name:        "login",
		Group:       "Utility",
		Description: "Link a cloud account",
		Usage:       "login",
		Handler:     loginHandler,
	})
}

func recordHandler(s *session.Session, args []string) error {
	key := core.NoGameKey
	if len(args) > 0 {
		k, err := core.ParseGameKey(args[0])
		if err != nil {
			return fmt.Errorf("invalid game key: %s", args[0])
		}
		key = k
	}

	err := s.Recorder.Open(key)
	switch {
	case errors.Is(err, core.ErrGameNotFound):
		fmt.Fprintf(s.Out, "%sGame %s not found%s\n", display.Yellow, key, display.Reset)
		s.Mode = session.ModeIdle
		return historyHandler(s, nil)
	case errors.Is(err, core.ErrGameOver):
		fmt.Fprintf(s.Out, "%sGame %s is over, opening review%s\n", display.Yellow, key, display.Reset)
		return reviewHandler(s, args)
	case err != nil:
		return err
	}

	s.Mode = session.ModeRecord
	white, black := s.Recorder.Names()
	if key == core.NoGameKey {
		fmt.Fprintf(s.Out, "%sNew game%s (white: %s, black: %s)\n", display.Green, display.Reset, orDash(white), orDash(black))
		if unfinished, ok, err := s.Recorder.HaveUnfinishedGame(); err != nil {
			return err
		} else if ok {
			fmt.Fprintf(s.Out, "%sUnfinished game %s; 'record %s' to continue it%s\n",
				display.Yellow, unfinished, unfinished, display.Reset)
		}
	} else {
		fmt.Fprintf(s.Out, "%sContinuing game %s%s\n", display.Green, key, display.Reset)
	}
	return boardHandler(s, nil)
}

func requireRecording(s *session.Session) error {
	if s.Mode != session.ModeRecord {
		return fmt.Errorf("not recording; use 'record' first")
	}
	return nil
}

func selectHandler(s *session.Session, args []string) error {
	if err := requireRecording(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: select <square>")
	}
	sq, err := core.ParseSquare(args[0])
	if err != nil {
		return err
	}

	if s.Verbose {
		fmt.Fprintln(s.Out, s.Recorder.Session().TransitionMessage(sq))
	}

	state, pending, err := s.Recorder.Select(sq)
	if err != nil {
		return err
	}

	switch state {
	case core.TransitionStart:
		fmt.Fprintf(s.Out, "Picked up %s\n", sq)
	case core.TransitionCancel:
		fmt.Fprintln(s.Out, "Cancelled")
	case core.TransitionInvalid:
		fmt.Fprintf(s.Out, "%sInvalid start; currently %s's turn to move.%s\n",
			display.Yellow, s.Recorder.Session().TurnName(), display.Reset)
	case core.TransitionValid:
		return reportPending(s, pending)
	}
	return nil
}

func moveHandler(s *session.Session, args []string) error {
	if err := requireRecording(s); err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: move <from> <to> [n|b|r|q]")
	}
	from, err := core.ParseSquare(args[0])
	if err != nil {
		return err
	}
	to, err := core.ParseSquare(args[1])
	if err != nil {
		return err
	}

	pending, err := s.Recorder.Move(from, to)
	if err != nil {
		return err
	}
	if pending == nil {
		return fmt.Errorf("cannot move %s to %s", from, to)
	}
	if len(args) == 3 {
		if _, resolved := pending.Resolved(); !resolved {
			return promoteHandler(s, args[2:])
		}
	}
	return reportPending(s, pending)
}

// reportPending prints a settled move or asks for a promotion piece
func reportPending(s *session.Session, p *transit.Pending) error {
	if p == nil {
		return nil
	}
	res, resolved := p.Resolved()
	if !resolved {
		var choices []string
		for _, piece := range transit.PossiblePromotions(s.Recorder.Engine().Turn()) {
			choices = append(choices, piece.Type.String())
		}
		fmt.Fprintf(s.Out, "%sPromotion on %s: choose %s with 'promote'%s\n",
			display.Magenta, p.To(), strings.Join(choices, "/"), display.Reset)
		return nil
	}
	return reportResult(s, res)
}

func reportResult(s *session.Session, res transit.Result) error {
	if res.Err != nil {
		return res.Err
	}
	if !res.Moved {
		fmt.Fprintf(s.Out, "%sIllegal move %s-%s%s\n", display.Red, res.Move.From, res.Move.To, display.Reset)
		return nil
	}

	check := ""
	if s.Recorder.WasCheck() {
		check = " " + display.Red + "check" + display.Reset
	}
	fmt.Fprintf(s.Out, "%s%s\n", res.Move.SAN, check)

	if s.Recorder.GameOver() {
		fmt.Fprintf(s.Out, "%s%s%s\n", display.Cyan, s.Recorder.Resolution().Message(), display.Reset)
	}
	return boardHandler(s, nil)
}

func promoteHandler(s *session.Session, args []string) error {
	if err := requireRecording(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: promote <n|r|q|b>")
	}
	pt, ok := core.ParsePieceType(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrInvalidPromotion, args[0])
	}
	res, err := s.Recorder.Promote(pt)
	if err != nil {
		return err
	}
	return reportResult(s, res)
}

func cancelHandler(s *session.Session, args []string) error {
	if err := requireRecording(s); err != nil {
		return err
	}
	s.Recorder.Cancel()
	fmt.Fprintln(s.Out, "Cancelled")
	return nil
}

func undoHandler(s *session.Session, args []string) error {
	if err := requireRecording(s); err != nil {
		return err
	}
	ok, err := s.Recorder.Undo()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.Out, "Nothing to undo")
		return nil
	}
	return boardHandler(s, nil)
}

func boardHandler(s *session.Session, args []string) error {
	switch s.Mode {
	case session.ModeRecord:
		var selected *core.Square
		if sq, ok := s.Recorder.Session().InTransit(); ok {
			selected = &sq
		}
		e := s.Recorder.Engine()
		display.RenderBoard(s.Out, e, s.Theme, selected)
		fmt.Fprintf(s.Out, "Turn: %s\n", display.ColorForTurn(e.Turn()))
	case session.ModeReview:
		display.RenderBoard(s.Out, s.Navigator.Board(), s.Theme, nil)
		fmt.Fprintf(s.Out, "Move %d of %d\n", s.Navigator.MoveNumber(), s.Navigator.LastMoveIndex()+1)
	default:
		return fmt.Errorf("no game open; use 'record' or 'review <key>'")
	}
	return nil
}

func pgnHandler(s *session.Session, args []string) error {
	switch s.Mode {
	case session.ModeRecord:
		fmt.Fprintln(s.Out, s.Recorder.PGN())
	case session.ModeReview:
		metadata, moves := s.Navigator.Formatted()
		for _, line := range metadata {
			fmt.Fprintf(s.Out, "%s%s%s\n", display.Cyan, line, display.Reset)
		}
		for _, line := range moves {
			fmt.Fprintln(s.Out, line)
		}
	default:
		return fmt.Errorf("no game open")
	}
	return nil
}

func namesHandler(s *session.Session, args []string) error {
	if len(args) == 0 {
		white, err := s.Store.MostRecentName(true)
		if err != nil {
			return err
		}
		black, err := s.Store.MostRecentName(false)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "White: %s\nBlack: %s\n", orDash(white), orDash(black))
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: names <white> <black>")
	}
	if err := s.Recorder.SetNames(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "White: %s, Black: %s\n", args[0], args[1])
	return nil
}

func exportHandler(s *session.Session, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	var a export.Artifact
	switch s.Mode {
	case session.ModeRecord:
		var err error
		if a, err = s.Recorder.Download(); err != nil {
			return err
		}
	case session.ModeReview:
		dump, ok, err := s.Store.Lookup(s.ReviewKey)
		if err != nil {
			return err
		}
		if !ok {
			return core.ErrGameNotFound
		}
		a = export.New(s.DownloadPrefix, s.ReviewKey, dump)
	default:
		return fmt.Errorf("no game open")
	}

	path, err := export.Write(dir, a)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Saved %s\n", path)
	return nil
}

func themeHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: theme <off|brown|green|gray>")
	}
	theme, err := display.ParseTheme(args[0])
	if err != nil {
		return err
	}
	s.Theme = theme
	return nil
}

func loginHandler(s *session.Session, args []string) error {
	return s.Recorder.Login()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
