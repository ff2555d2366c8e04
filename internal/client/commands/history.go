package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"chesslog/internal/client/display"
	"chesslog/internal/client/session"
	"chesslog/internal/core"
	"chesslog/internal/limbo"
	"chesslog/internal/replay"
)

func (r *Registry) registerHistoryCommands() {
	r.Register(&Command{
		Name:        "history",
		ShortName:   "h",
		Group:       "History",
		Description: "List stored games, newest first",
		Usage:       "history",
		Handler:     historyHandler,
	})
	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Group:       "History",
		Description: "Delete a game or all games after a grace period",
		Usage:       "delete <key|all>",
		Handler:     deleteHandler,
	})
	r.Register(&Command{
		Name:        "restore",
		Group:       "History",
		Description: "Take back a pending delete",
		Usage:       "restore <key|all>",
		Handler:     restoreHandler,
	})
	r.Register(&Command{
		Name:        "upload",
		Group:       "History",
		Description: "Store a PGN file as a new game",
		Usage:       "upload <file>",
		Handler:     uploadHandler,
	})
}

func historyHandler(s *session.Session, args []string) error {
	redirect, err := s.Catalog.ShouldRedirect()
	if err != nil {
		return err
	}
	if redirect {
		fmt.Fprintln(s.Out, "No games yet. Use 'record' to start one.")
		return nil
	}

	entries, err := s.Catalog.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.Out, "No games stored")
		return nil
	}

	pending := map[core.GameKey]bool{}
	for _, k := range s.Catalog.PendingDeletes() {
		pending[k] = true
	}

	w := tabwriter.NewWriter(s.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Key\tDate\tWhite\tBlack\tMoves\tStatus")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, e := range entries {
		status := "in progress"
		switch {
		case e.Unreadable:
			status = "unreadable"
		case e.GameOver:
			status = e.Resolution.String()
			if e.Resolution == core.ResolutionCheckmate || e.Resolution == core.ResolutionDecided {
				status += ", " + e.Winner.Name() + " won"
			}
		}
		if pending[e.Key] || pending[limbo.DeleteAllKey] {
			status += " (deleting)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.Key,
			e.Key.Time().UTC().Format("2006-01-02 15:04"),
			orDash(e.White),
			orDash(e.Black),
			e.Moves,
			status,
		)
	}
	w.Flush()

	fmt.Fprintf(s.Out, "\n%d of %d game(s)\n", len(entries), s.Store.MaxGames())
	return nil
}

func deleteHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <key|all>")
	}

	var (
		action *limbo.Action
		err    error
		what   string
	)
	if strings.EqualFold(args[0], "all") {
		action, err = s.Catalog.DeleteAllGames()
		what = "all games"
	} else {
		key, perr := core.ParseGameKey(args[0])
		if perr != nil {
			return fmt.Errorf("invalid game key: %s", args[0])
		}
		if s.Mode == session.ModeRecord && s.Recorder.Key() == key {
			return fmt.Errorf("game %s is being recorded", key)
		}
		action, err = s.Catalog.DeleteGame(key)
		what = "game " + key.String()
	}
	if err != nil {
		return err
	}

	wait := time.Until(action.Deadline).Round(time.Second)
	fmt.Fprintf(s.Out, "%sDeleting %s in %s; 'restore %s' to undo%s\n",
		display.Yellow, what, wait, args[0], display.Reset)

	go func() {
		if committed := <-action.Done(); committed {
			s.Log.Debug("delete committed", zap.Stringer("key", action.Key))
		}
	}()
	return nil
}

func restoreHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: restore <key|all>")
	}

	key := limbo.DeleteAllKey
	if !strings.EqualFold(args[0], "all") {
		k, err := core.ParseGameKey(args[0])
		if err != nil {
			return fmt.Errorf("invalid game key: %s", args[0])
		}
		key = k
	}

	if !s.Catalog.Undo(key) {
		return fmt.Errorf("nothing pending for %s", args[0])
	}
	fmt.Fprintf(s.Out, "%sRestored %s%s\n", display.Green, args[0], display.Reset)
	return nil
}

func uploadHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: upload <file>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	key, err := replay.SubmitRawPGN(s.Store, s.Factory, string(raw), s.Now())
	if err != nil {
		if errors.Is(err, core.ErrEmptyPGN) || errors.Is(err, core.ErrInvalidPGN) {
			return fmt.Errorf("%s is not a valid PGN: %w", args[0], err)
		}
		return err
	}
	fmt.Fprintf(s.Out, "%sStored as game %s%s\n", display.Green, key, display.Reset)
	return nil
}
