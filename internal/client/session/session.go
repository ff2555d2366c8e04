// Package session holds the interactive client's state between commands
package session

import (
	"io"
	"time"

	"go.uber.org/zap"

	"chesslog/internal/catalog"
	"chesslog/internal/client/display"
	"chesslog/internal/core"
	"chesslog/internal/history"
	"chesslog/internal/recorder"
	"chesslog/internal/replay"
	"chesslog/internal/rules"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeRecord
	ModeReview
)

func (m Mode) String() string {
	switch m {
	case ModeRecord:
		return "record"
	case ModeReview:
		return "review"
	default:
		return "idle"
	}
}

// Session is everything a command handler can reach
type Session struct {
	ID             string
	Out            io.Writer
	Store          *history.Store
	Catalog        *catalog.Catalog
	Recorder       *recorder.Recorder
	Navigator      *replay.Navigator
	Factory        rules.Factory
	Theme          display.Theme
	DownloadPrefix string
	Log            *zap.Logger
	Now            func() time.Time

	Mode      Mode
	ReviewKey core.GameKey
	Verbose   bool
}
