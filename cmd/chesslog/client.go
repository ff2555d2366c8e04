package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"

	"chesslog/internal/client/commands"
	"chesslog/internal/client/display"
	"chesslog/internal/client/session"
	"chesslog/internal/core"
)

func runClient(a *app) error {
	theme, err := display.ParseTheme(a.cfg.Display.Theme)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		theme = display.ThemeOff
	}

	s := &session.Session{
		ID:             uuid.New().String(),
		Out:            os.Stdout,
		Store:          a.history,
		Catalog:        a.catalog,
		Recorder:       a.recorder,
		Navigator:      a.navigator,
		Factory:        a.factory,
		Theme:          theme,
		DownloadPrefix: a.cfg.History.DownloadPrefix,
		Now:            time.Now,
	}
	s.Log = a.log.With(zap.String("session", s.ID))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chesslog"),
		HistoryFile:     a.cfg.Display.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("%sChess Game Logger%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sDatabase: %s%s\n", display.Cyan, a.store.Path(), display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	// With nothing stored go straight to recording
	if redirect, err := a.catalog.ShouldRedirect(); err == nil && redirect {
		registry.Execute("record")
	} else {
		registry.Execute("history")
	}

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Check for verbose flag
		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if registry.Execute(line) {
			break
		}
	}

	if pending := a.catalog.PendingDeletes(); len(pending) > 0 {
		fmt.Printf("%s%d pending delete(s) dropped%s\n", display.Yellow, len(pending), display.Reset)
	}
	return nil
}

func buildPrompt(s *session.Session) string {
	promptStr := "chesslog"

	switch s.Mode {
	case session.ModeRecord:
		key := "new"
		if k := s.Recorder.Key(); k != core.NoGameKey {
			key = k.String()
		}
		promptStr += display.Yellow + " [" + display.Reset + display.White + key + display.Reset + display.Yellow + "]"

		if s.Recorder.GameOver() {
			promptStr += " - " + s.Recorder.Resolution().String()
		} else {
			turn := s.Recorder.Engine().Turn()
			color := display.Blue
			if turn == core.ColorBlack {
				color = display.Red
			}
			promptStr += fmt.Sprintf(" - Turn:%s%s%s", color, turn.Name(), display.Reset)
		}
		if sq, ok := s.Recorder.Session().InTransit(); ok {
			promptStr += fmt.Sprintf(" %s(%s)%s", display.Magenta, sq, display.Reset)
		}

	case session.ModeReview:
		promptStr += display.Yellow + " [" + display.Reset + "review " + s.ReviewKey.String() + display.Yellow + "]"
		promptStr += fmt.Sprintf(" %d/%d", s.Navigator.MoveNumber(), s.Navigator.LastMoveIndex()+1)
	}

	return display.Prompt(promptStr)
}
