package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslog/internal/core"
	"chesslog/internal/history"
	"chesslog/internal/pgntext"
	"chesslog/internal/rules"
	"chesslog/internal/storage"
)

var fixed = time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

func sq(s string) core.Square { return core.MustSquare(s) }

func newRecorder(t *testing.T) (*Recorder, *history.Store) {
	t.Helper()
	store := history.New(storage.NewMemoryStore(), 0, nil)
	r := New(store, rules.DefaultFactory, Config{}, nil)
	r.SetClock(func() time.Time { return fixed })
	require.NoError(t, r.Open(core.NoGameKey))
	return r, store
}

func move(t *testing.T, r *Recorder, from, to string) {
	t.Helper()
	p, err := r.Move(sq(from), sq(to))
	require.NoError(t, err)
	res, ok := p.Resolved()
	require.True(t, ok)
	require.True(t, res.Moved, "%s-%s", from, to)
}

func TestFirstMoveStartsAndSaves(t *testing.T) {
	r, store := newRecorder(t)
	assert.Equal(t, core.NoGameKey, r.Key())

	// Picking up a piece does not start the game
	_, _, err := r.Select(sq("e2"))
	require.NoError(t, err)
	assert.Equal(t, core.NoGameKey, r.Key())

	_, p, err := r.Select(sq("e4"))
	require.NoError(t, err)
	res := <-p.Done()
	require.True(t, res.Moved)

	key := core.NewGameKey(fixed)
	assert.Equal(t, key, r.Key())
	dump, ok, err := store.Lookup(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultWhiteName, pgntext.Header(dump, "White"))
	assert.Equal(t, DefaultBlackName, pgntext.Header(dump, "Black"))
	assert.Equal(t, "2024-1-5", pgntext.Header(dump, "Date"))
	_, unfinished, err := r.HaveUnfinishedGame()
	require.NoError(t, err)
	assert.False(t, unfinished, "a started game hides stored ones")
}

func TestFreshRecorderFindsUnfinishedGame(t *testing.T) {
	r, store := newRecorder(t)
	move(t, r, "e2", "e4")

	fresh := New(store, rules.DefaultFactory, Config{}, nil)
	require.NoError(t, fresh.Open(core.NoGameKey))
	key, ok, err := fresh.HaveUnfinishedGame()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, r.Key(), key)
}

func TestUnfinishedGameSkipsFinished(t *testing.T) {
	store := history.New(storage.NewMemoryStore(), 0, nil)
	_, err := store.Write(10, "[White \"a\"]\n[Black \"b\"]\n\n1. e4 e5 *")
	require.NoError(t, err)
	_, err = store.Write(20, "[White \"a\"]\n[Black \"b\"]\n\n1. f3 e5 2. g4 Qh4# 0-1")
	require.NoError(t, err)

	r := New(store, rules.DefaultFactory, Config{}, nil)
	require.NoError(t, r.Open(core.NoGameKey))
	key, ok, err := r.HaveUnfinishedGame()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.GameKey(10), key)

	_, err = store.Write(30, "[White \"a\"]\n[Black \"b\"]\n\n1. d4 *")
	require.NoError(t, err)
	key, ok, err = r.HaveUnfinishedGame()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.GameKey(30), key)
}

func TestNoUnfinishedGame(t *testing.T) {
	r, _ := newRecorder(t)
	_, ok, err := r.HaveUnfinishedGame()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamesAreRemembered(t *testing.T) {
	r, store := newRecorder(t)
	require.NoError(t, r.SetNames("Alice", "Bob"))
	move(t, r, "d2", "d4")

	white, err := store.MostRecentName(true)
	require.NoError(t, err)
	assert.Equal(t, "Alice", white)

	next := New(store, rules.DefaultFactory, Config{}, nil)
	require.NoError(t, next.Open(core.NoGameKey))
	w, b := next.Names()
	assert.Equal(t, "Alice", w)
	assert.Equal(t, "Bob", b)
}

func TestOpenRedirects(t *testing.T) {
	r, store := newRecorder(t)

	err := r.Open(12345)
	assert.ErrorIs(t, err, core.ErrGameNotFound)

	_, err = store.Write(99, "[White \"a\"]\n\n1. f3 e5 2. g4 Qh4# 0-1")
	require.NoError(t, err)
	assert.ErrorIs(t, r.Open(99), core.ErrGameOver)

	_, err = store.Write(100, "[White \"w\"]\n[Black \"b\"]\n\n1. e4 e5 *")
	require.NoError(t, err)
	require.NoError(t, r.Open(100))
	assert.Equal(t, core.GameKey(100), r.Key())
	assert.Len(t, r.Engine().History(), 2)
	w, _ := r.Names()
	assert.Equal(t, "w", w)

	move(t, r, "g1", "f3")
	dump, _, err := store.Lookup(100)
	require.NoError(t, err)
	assert.Contains(t, dump, "Nf3")
}

func TestUndoSaves(t *testing.T) {
	r, store := newRecorder(t)
	move(t, r, "e2", "e4")
	move(t, r, "e7", "e5")

	ok, err := r.Undo()
	require.NoError(t, err)
	assert.True(t, ok)

	dump, _, err := store.Lookup(r.Key())
	require.NoError(t, err)
	assert.NotContains(t, dump, "e5")

	ok, err = r.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Undo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGameOverBlocksSelection(t *testing.T) {
	r, _ := newRecorder(t)
	move(t, r, "f2", "f3")
	move(t, r, "e7", "e5")
	move(t, r, "g2", "g4")
	move(t, r, "d8", "h4")

	assert.True(t, r.GameOver())
	_, unfinished, err := r.HaveUnfinishedGame()
	require.NoError(t, err)
	assert.False(t, unfinished)
	assert.Equal(t, "Game Over: Checkmate", r.Resolution().Message())
	assert.True(t, r.WasCheck() || r.Engine().InCheckmate())

	_, _, err = r.Select(sq("a2"))
	assert.ErrorIs(t, err, core.ErrGameOver)
}

func TestMoveWithoutPiece(t *testing.T) {
	r, _ := newRecorder(t)
	_, err := r.Move(sq("e4"), sq("e5"))
	assert.Error(t, err)
	assert.Equal(t, core.NoGameKey, r.Key())
}

func TestDownload(t *testing.T) {
	r, _ := newRecorder(t)
	_, err := r.Download()
	assert.Error(t, err)

	move(t, r, "e2", "e4")
	a, err := r.Download()
	require.NoError(t, err)
	assert.Equal(t, "chesslog_game_"+r.Key().String()+".txt", a.FileName)
	assert.Equal(t, r.DownloadFileName(), a.FileName)
	assert.Contains(t, a.Content, "e4")
}

func TestLoginNotImplemented(t *testing.T) {
	r, _ := newRecorder(t)
	assert.ErrorIs(t, r.Login(), core.ErrNotImplemented)
}
