package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chesslog/internal/catalog"
	"chesslog/internal/client/display"
	"chesslog/internal/client/session"
	"chesslog/internal/core"
	"chesslog/internal/history"
	"chesslog/internal/limbo"
	"chesslog/internal/recorder"
	"chesslog/internal/replay"
	"chesslog/internal/rules"
	"chesslog/internal/storage"
)

var fixed = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

const mated = "[White \"Ann\"]\n[Black \"Ben\"]\n\n1. f3 e5 2. g4 Qh4# 0-1"

func newTestRegistry(t *testing.T) (*Registry, *session.Session, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	store := history.New(storage.NewMemoryStore(), 0, nil)
	reg := limbo.NewRegistry(nil)
	t.Cleanup(func() { reg.Shutdown(time.Second) })

	rec := recorder.New(store, rules.DefaultFactory, recorder.Config{}, nil)
	rec.SetClock(func() time.Time { return fixed })

	s := &session.Session{
		Out:       out,
		Store:     store,
		Catalog:   catalog.New(store, rules.DefaultFactory, reg, 20*time.Millisecond, nil),
		Recorder:  rec,
		Navigator: replay.NewNavigator(rules.DefaultFactory, nil),
		Factory:   rules.DefaultFactory,
		Theme:     display.ThemeOff,
		Log:       zap.NewNop(),
		Now:       func() time.Time { return fixed },
	}
	return NewRegistry(s), s, out
}

func TestRecordAndPlay(t *testing.T) {
	r, s, out := newTestRegistry(t)

	assert.False(t, r.Execute("record"))
	assert.Equal(t, session.ModeRecord, s.Mode)

	r.Execute("e2e4")
	r.Execute("e7")
	r.Execute("e5")
	assert.Contains(t, out.String(), "e4")
	assert.NotContains(t, out.String(), "Error")

	key := core.NewGameKey(fixed)
	dump, ok, err := s.Store.Lookup(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, dump, "1. e4 e5")
}

func TestRecordOffersUnfinishedGame(t *testing.T) {
	r, s, out := newTestRegistry(t)
	_, err := s.Store.Write(42, "[White \"Ann\"]\n[Black \"Ben\"]\n\n1. e4 e5 *")
	require.NoError(t, err)

	r.Execute("record")
	assert.Contains(t, out.String(), "Unfinished game 42; 'record 42' to continue it")

	out.Reset()
	r.Execute("record 42")
	assert.Contains(t, out.String(), "Continuing game 42")
	assert.NotContains(t, out.String(), "Unfinished game")
}

func TestNotRecording(t *testing.T) {
	r, _, out := newTestRegistry(t)
	r.Execute("e2e4")
	assert.Contains(t, out.String(), "not recording")
}

func TestIllegalMoveReported(t *testing.T) {
	r, _, out := newTestRegistry(t)
	r.Execute("record")
	r.Execute("move e2 e5")
	assert.Contains(t, out.String(), "Illegal move e2-e5")
}

func TestPromotionFlow(t *testing.T) {
	r, s, out := newTestRegistry(t)
	r.Execute("record")
	for _, m := range []string{"h2h4", "g7g5", "h4g5", "h7h6", "g5h6", "f8g7", "h6h7", "a7a6"} {
		r.Execute(m)
	}
	out.Reset()

	r.Execute("h7g8")
	assert.Contains(t, out.String(), "Promotion on g8")
	r.Execute("promote q")
	assert.Contains(t, out.String(), "hxg8=Q")

	p, ok := s.Recorder.Engine().Get(core.MustSquare("g8"))
	require.True(t, ok)
	assert.Equal(t, core.Queen, p.Type)
}

func TestUnknownCommand(t *testing.T) {
	r, _, out := newTestRegistry(t)
	assert.False(t, r.Execute("frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestExit(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	assert.True(t, r.Execute("exit"))
	assert.False(t, r.Execute(""))
}

func TestRecordFinishedGameOpensReview(t *testing.T) {
	r, s, out := newTestRegistry(t)
	_, err := s.Store.Write(42, mated)
	require.NoError(t, err)

	r.Execute("record 42")
	assert.Equal(t, session.ModeReview, s.Mode)
	assert.Equal(t, core.GameKey(42), s.ReviewKey)
	assert.Contains(t, out.String(), "Move 4 of 4")
}

func TestRecordMissingGameShowsHistory(t *testing.T) {
	r, s, out := newTestRegistry(t)
	r.Execute("record 7")
	assert.Equal(t, session.ModeIdle, s.Mode)
	assert.Contains(t, out.String(), "not found")
}

func TestReviewNavigation(t *testing.T) {
	r, s, out := newTestRegistry(t)
	_, err := s.Store.Write(42, mated)
	require.NoError(t, err)

	r.Execute("review 42")
	assert.Equal(t, 3, s.Navigator.Cursor())

	r.Execute("jump 2")
	assert.Equal(t, 1, s.Navigator.Cursor())
	r.Execute("prev")
	assert.Equal(t, 0, s.Navigator.Cursor())
	r.Execute("prev")
	assert.Contains(t, out.String(), "Already at the first move")
	r.Execute("next")
	assert.Equal(t, 1, s.Navigator.Cursor())

	out.Reset()
	r.Execute("jump 9")
	assert.Contains(t, out.String(), "out of range 1..4")
}

func TestValues(t *testing.T) {
	r, s, out := newTestRegistry(t)
	_, err := s.Store.Write(42, mated)
	require.NoError(t, err)

	r.Execute("values 42")
	assert.Contains(t, out.String(), "39")
}

func TestDeleteAndRestore(t *testing.T) {
	r, s, out := newTestRegistry(t)
	_, err := s.Store.Write(42, mated)
	require.NoError(t, err)

	r.Execute("delete 42")
	assert.Contains(t, out.String(), "restore 42")
	r.Execute("restore 42")
	assert.Contains(t, out.String(), "Restored 42")

	time.Sleep(50 * time.Millisecond)
	_, ok, err := s.Store.Lookup(42)
	require.NoError(t, err)
	assert.True(t, ok)

	r.Execute("delete 42")
	assert.Eventually(t, func() bool {
		_, ok, _ := s.Store.Lookup(42)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestHistoryListing(t *testing.T) {
	r, s, out := newTestRegistry(t)
	r.Execute("history")
	assert.Contains(t, out.String(), "No games yet")

	_, err := s.Store.Write(42, mated)
	require.NoError(t, err)
	out.Reset()
	r.Execute("history")
	assert.Contains(t, out.String(), "Ann")
	assert.Contains(t, out.String(), "Black won")
}

func TestUpload(t *testing.T) {
	r, s, out := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "game.pgn")
	require.NoError(t, os.WriteFile(path, []byte(`[White "Ann"] [Black "Ben"] 1. e4 e5 2. Nf3 *`), 0o644))

	r.Execute("upload " + path)
	assert.Contains(t, out.String(), "Stored as game")

	dump, ok, err := s.Store.Lookup(core.NewGameKey(fixed))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, dump, "[White \"Ann\"]\n")
}

func TestExportWritesFile(t *testing.T) {
	r, _, out := newTestRegistry(t)
	dir := t.TempDir()
	r.Execute("record")
	r.Execute("e2e4")
	r.Execute("export " + dir)
	assert.Contains(t, out.String(), "Saved "+dir)
}
