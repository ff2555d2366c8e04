// Package catalog lists stored games and runs undoable deletions
package catalog

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"chesslog/internal/core"
	"chesslog/internal/history"
	"chesslog/internal/limbo"
	"chesslog/internal/pgntext"
	"chesslog/internal/rules"
)

// Entry summarizes one stored game
type Entry struct {
	Key        core.GameKey
	White      string
	Black      string
	Moves      int
	GameOver   bool
	Winner     core.Color
	Resolution core.Resolution
	// Unreadable is set when the dump no longer parses
	Unreadable bool
}

// Catalog reads the history for listing and schedules deletions
type Catalog struct {
	store   *history.Store
	factory rules.Factory
	limbo   *limbo.Registry
	delay   time.Duration
	log     *zap.Logger
}

func New(store *history.Store, factory rules.Factory, registry *limbo.Registry, delay time.Duration, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	if delay <= 0 {
		delay = limbo.UndoTimeout
	}
	return &Catalog{
		store:   store,
		factory: factory,
		limbo:   registry,
		delay:   delay,
		log:     log.Named("catalog"),
	}
}

// Entries summarizes every stored game, newest first
func (c *Catalog) Entries() ([]Entry, error) {
	all, err := c.store.ReadAll()
	if err != nil {
		return nil, err
	}
	keys, err := c.store.Keys()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		dump, ok := all[key]
		if !ok {
			continue
		}
		entries = append(entries, c.summarize(key, dump))
	}
	return entries, nil
}

// Entry summarizes a single game
func (c *Catalog) Entry(key core.GameKey) (Entry, error) {
	dump, ok, err := c.store.Lookup(key)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, key)
	}
	return c.summarize(key, dump), nil
}

func (c *Catalog) summarize(key core.GameKey, dump string) Entry {
	e := Entry{
		Key:   key,
		White: pgntext.Header(dump, "White"),
		Black: pgntext.Header(dump, "Black"),
	}

	engine := c.factory()
	if err := engine.LoadPGN(dump); err != nil {
		c.log.Warn("stored game does not parse", zap.Stringer("key", key), zap.Error(err))
		e.Unreadable = true
		return e
	}

	e.Moves = len(engine.History())
	e.GameOver = engine.GameOver()
	e.Resolution = rules.ResolutionOf(engine)
	if winner, ok := rules.Winner(engine); ok {
		e.Winner = winner
	}
	return e
}

// ShouldRedirect reports whether there is nothing to list: no games and no
// saved player names
func (c *Catalog) ShouldRedirect() (bool, error) {
	games, err := c.store.HavePgnDumps()
	if err != nil {
		return false, err
	}
	settings, err := c.store.HaveSettingsSaved()
	if err != nil {
		return false, err
	}
	return !games && !settings, nil
}

// DeleteGame schedules removal of key after the undo window
func (c *Catalog) DeleteGame(key core.GameKey) (*limbo.Action, error) {
	if _, ok, err := c.store.Lookup(key); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, key)
	}

	return c.limbo.Start(key, c.delay, func() {
		n, ok, err := c.store.Delete(key)
		if err != nil {
			c.log.Error("delayed delete failed", zap.Stringer("key", key), zap.Error(err))
			return
		}
		c.log.Info("game deleted", zap.Stringer("key", key), zap.Bool("existed", ok), zap.Int("remaining", n))
	})
}

// DeleteAllGames schedules clearing the history after the undo window
func (c *Catalog) DeleteAllGames() (*limbo.Action, error) {
	return c.limbo.Start(limbo.DeleteAllKey, c.delay, func() {
		n, err := c.store.DeleteAll()
		if err != nil {
			c.log.Error("delayed delete-all failed", zap.Error(err))
			return
		}
		c.log.Info("all games deleted", zap.Int("count", n))
	})
}

// Undo cancels a scheduled deletion; limbo.DeleteAllKey cancels delete-all
func (c *Catalog) Undo(key core.GameKey) bool {
	return c.limbo.Cancel(key)
}

// PendingDeletes lists keys with a deletion in flight
func (c *Catalog) PendingDeletes() []core.GameKey {
	return c.limbo.Keys()
}

// Pending returns the scheduled deletion for key
func (c *Catalog) Pending(key core.GameKey) (*limbo.Action, bool) {
	return c.limbo.Pending(key)
}
