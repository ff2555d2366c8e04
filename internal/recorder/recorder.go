// Package recorder is the live recording controller. It owns the engine of
// the game being recorded, starts games on the first real move and writes the
// dump back to history after every change.
package recorder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"chesslog/internal/core"
	"chesslog/internal/export"
	"chesslog/internal/history"
	"chesslog/internal/pgntext"
	"chesslog/internal/rules"
	"chesslog/internal/transit"
)

const (
	DefaultWhiteName = "hippo"
	DefaultBlackName = "squirrel"
)

// Config carries naming defaults
type Config struct {
	DefaultWhite   string
	DefaultBlack   string
	DownloadPrefix string
}

// Recorder records one game at a time
type Recorder struct {
	store   *history.Store
	factory rules.Factory
	cfg     Config
	log     *zap.Logger
	now     func() time.Time

	key     core.GameKey
	engine  rules.Engine
	session *transit.Session
	white   string
	black   string
}

func New(store *history.Store, factory rules.Factory, cfg Config, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DefaultWhite == "" {
		cfg.DefaultWhite = DefaultWhiteName
	}
	if cfg.DefaultBlack == "" {
		cfg.DefaultBlack = DefaultBlackName
	}
	r := &Recorder{
		store:   store,
		factory: factory,
		cfg:     cfg,
		log:     log.Named("recorder"),
		now:     time.Now,
	}
	r.bind(factory())
	return r
}

// SetClock replaces the time source used for new game keys
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Recorder) bind(engine rules.Engine) {
	r.engine = engine
	r.session = transit.NewSession(engine, r.log)
	r.session.OnMove(func(res transit.Result) {
		if !res.Moved {
			return
		}
		if err := r.Save(); err != nil {
			r.log.Error("failed to save game after move", zap.Stringer("key", r.key), zap.Error(err))
		}
	})
}

// Open prepares key for recording. NoGameKey opens a fresh unsaved game.
// A missing key yields ErrGameNotFound and a finished game ErrGameOver;
// callers send the user to the history listing or to review respectively.
func (r *Recorder) Open(key core.GameKey) error {
	if key == core.NoGameKey {
		white, err := r.store.MostRecentName(true)
		if err != nil {
			return err
		}
		black, err := r.store.MostRecentName(false)
		if err != nil {
			return err
		}
		r.key, r.white, r.black = core.NoGameKey, white, black
		r.bind(r.factory())
		return nil
	}

	dump, ok, err := r.store.Lookup(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, key)
	}

	engine := r.factory()
	if err := engine.LoadPGN(dump); err != nil {
		return fmt.Errorf("load game %s: %w", key, err)
	}
	if engine.GameOver() {
		return fmt.Errorf("%w: %s", core.ErrGameOver, key)
	}

	r.key = key
	r.white = engine.HeaderValue("White")
	r.black = engine.HeaderValue("Black")
	r.bind(engine)
	r.log.Info("game opened", zap.Stringer("key", key), zap.Int("plies", len(engine.History())))
	return nil
}

// Key is the current game's key, NoGameKey until the game starts
func (r *Recorder) Key() core.GameKey {
	return r.key
}

func (r *Recorder) Engine() rules.Engine {
	return r.engine
}

func (r *Recorder) Session() *transit.Session {
	return r.session
}

// SetNames sets the player names used when the game starts. Once started
// the headers are updated as well.
func (r *Recorder) SetNames(white, black string) error {
	r.white, r.black = strings.TrimSpace(white), strings.TrimSpace(black)
	if r.key == core.NoGameKey {
		return nil
	}
	r.applyNames()
	return r.Save()
}

// Names returns the names as currently entered
func (r *Recorder) Names() (white, black string) {
	return r.white, r.black
}

// StartNewGame allocates a key and writes the game headers
func (r *Recorder) StartNewGame() error {
	r.key = core.NewGameKey(r.now())

	if r.white != "" {
		if err := r.store.SetMostRecentName(r.white, true); err != nil {
			return err
		}
	}
	if r.black != "" {
		if err := r.store.SetMostRecentName(r.black, false); err != nil {
			return err
		}
	}

	r.applyNames()
	r.engine.Header("Date", r.key.DateHeader())
	r.log.Info("game started", zap.Stringer("key", r.key), zap.String("white", r.white), zap.String("black", r.black))
	return nil
}

func (r *Recorder) applyNames() {
	white, black := r.white, r.black
	if white == "" {
		white = r.cfg.DefaultWhite
	}
	if black == "" {
		black = r.cfg.DefaultBlack
	}
	r.engine.Header("White", white)
	r.engine.Header("Black", black)
}

// Select feeds a square selection to the transit session. The first VALID
// selection of a fresh game starts it.
func (r *Recorder) Select(sq core.Square) (core.TransitionState, *transit.Pending, error) {
	if r.engine.GameOver() {
		return core.TransitionInvalid, nil, core.ErrGameOver
	}
	if _, pending := r.session.PendingPromotion(); !pending &&
		r.key == core.NoGameKey && r.session.Classify(sq) == core.TransitionValid {
		if err := r.StartNewGame(); err != nil {
			return core.TransitionInvalid, nil, err
		}
	}
	return r.session.Advance(sq)
}

// Move selects from then to
func (r *Recorder) Move(from, to core.Square) (*transit.Pending, error) {
	if _, ok := r.session.InTransit(); ok {
		r.session.Cancel()
	}
	state, _, err := r.Select(from)
	if err != nil {
		return nil, err
	}
	if state != core.TransitionStart {
		return nil, fmt.Errorf("no %s piece on %s", strings.ToLower(r.engine.Turn().Name()), from)
	}
	_, p, err := r.Select(to)
	return p, err
}

// Promote settles a pending promotion
func (r *Recorder) Promote(pt core.PieceType) (transit.Result, error) {
	return r.session.ResolvePromotion(pt)
}

// Cancel drops the current selection and any pending promotion
func (r *Recorder) Cancel() {
	r.session.Cancel()
}

// Undo takes back the last ply and saves
func (r *Recorder) Undo() (bool, error) {
	r.session.Cancel()
	if !r.engine.Undo() {
		return false, nil
	}
	return true, r.Save()
}

// Save writes the line-broken dump once the game has been started and has
// something worth keeping
func (r *Recorder) Save() error {
	if r.key == core.NoGameKey {
		return nil
	}
	if len(r.engine.History()) == 0 {
		if _, stored, err := r.store.Lookup(r.key); err != nil || !stored {
			return err
		}
	}
	_, err := r.store.Write(r.key, pgntext.LineBreakify(r.engine.PGN()))
	return err
}

// PGN is the current dump as it would be stored
func (r *Recorder) PGN() string {
	return pgntext.LineBreakify(r.engine.PGN())
}

// HaveUnfinishedGame reports the newest stored game that is not over, while
// no game has been started in this recorder. Unreadable dumps are skipped.
func (r *Recorder) HaveUnfinishedGame() (core.GameKey, bool, error) {
	if r.key != core.NoGameKey {
		return core.NoGameKey, false, nil
	}

	all, err := r.store.ReadAll()
	if err != nil {
		return core.NoGameKey, false, err
	}
	keys, err := r.store.Keys()
	if err != nil {
		return core.NoGameKey, false, err
	}

	for _, key := range keys {
		dump, ok := all[key]
		if !ok {
			continue
		}
		engine := r.factory()
		if err := engine.LoadPGN(dump); err != nil {
			r.log.Debug("skipping unreadable game", zap.Stringer("key", key), zap.Error(err))
			continue
		}
		if !engine.GameOver() {
			return key, true, nil
		}
	}
	return core.NoGameKey, false, nil
}

func (r *Recorder) GameOver() bool {
	return r.engine.GameOver()
}

// Resolution returns how the game ended
func (r *Recorder) Resolution() core.Resolution {
	return rules.ResolutionOf(r.engine)
}

func (r *Recorder) WasCheck() bool {
	return r.session.WasCheck()
}

// DownloadFileName names the export artifact for the current game
func (r *Recorder) DownloadFileName() string {
	return export.FileName(r.cfg.DownloadPrefix, r.key)
}

// Download builds the export artifact for the current game
func (r *Recorder) Download() (export.Artifact, error) {
	if r.key == core.NoGameKey {
		return export.Artifact{}, errors.New("game not started")
	}
	return export.New(r.cfg.DownloadPrefix, r.key, r.PGN()), nil
}

// Login would link a cloud account for sync
func (r *Recorder) Login() error {
	return fmt.Errorf("login: %w", core.ErrNotImplemented)
}
