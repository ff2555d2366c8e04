package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"chesslog/internal/analysis"
	"chesslog/internal/catalog"
	"chesslog/internal/core"
	"chesslog/internal/export"
	"chesslog/internal/history"
	"chesslog/internal/limbo"
	"chesslog/internal/replay"
	"chesslog/internal/rules"
)

// HealthChecker reports backend health
type HealthChecker interface {
	IsHealthy() bool
}

// Handler serves the history API
type Handler struct {
	store          *history.Store
	catalog        *catalog.Catalog
	factory        rules.Factory
	health         HealthChecker
	downloadPrefix string
	log            *zap.Logger
	now            func() time.Time
}

// Deps bundles what the handler needs
type Deps struct {
	Store          *history.Store
	Catalog        *catalog.Catalog
	Factory        rules.Factory
	Health         HealthChecker
	DownloadPrefix string
	Log            *zap.Logger
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:          d.Store,
		catalog:        d.Catalog,
		factory:        d.Factory,
		health:         d.Health,
		downloadPrefix: d.DownloadPrefix,
		log:            log.Named("http"),
		now:            time.Now,
	}
}

// Health check endpoint with storage status
func (h *Handler) Health(c *fiber.Ctx) error {
	storage := "ok"
	if h.health != nil && !h.health.IsHealthy() {
		storage = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": storage,
	})
}

func (h *Handler) ListGames(c *fiber.Ctx) error {
	entries, err := h.catalog.Entries()
	if err != nil {
		return h.internal(c, err)
	}

	out := make([]core.GameSummary, 0, len(entries))
	for _, e := range entries {
		s := core.GameSummary{
			Key:        e.Key.String(),
			White:      e.White,
			Black:      e.Black,
			Moves:      e.Moves,
			GameOver:   e.GameOver,
			Resolution: e.Resolution.Message(),
		}
		if e.Winner != 0 {
			s.Winner = e.Winner.String()
		}
		out = append(out, s)
	}
	return c.JSON(out)
}

func (h *Handler) UploadGame(c *fiber.Ctx) error {
	req := c.Locals("validatedBody").(*core.UploadRequest)

	key, err := replay.SubmitRawPGN(h.store, h.factory, req.PGN, h.now())
	if err != nil {
		if errors.Is(err, core.ErrInvalidPGN) || errors.Is(err, core.ErrEmptyPGN) {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid PGN",
				Code:    core.CodeInvalidPGN,
				Details: err.Error(),
			})
		}
		return h.internal(c, err)
	}

	h.log.Info("game uploaded", zap.Stringer("key", key))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key.String()})
}

func (h *Handler) GetGame(c *fiber.Ctx) error {
	key, dump, err := h.lookup(c)
	if err != nil {
		return err
	}

	nav := replay.NewNavigator(h.factory, h.log)
	resp := core.GameResponse{Key: key.String(), PGN: dump}
	if err := nav.Load(dump); err == nil {
		resp.Metadata, resp.Moves = nav.Formatted()
	}
	return c.JSON(resp)
}

func (h *Handler) ReviewGame(c *fiber.Ctx) error {
	key, dump, err := h.lookup(c)
	if err != nil {
		return err
	}

	nav := replay.NewNavigator(h.factory, h.log)
	if err := nav.Load(dump); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(core.ErrorResponse{
			Error:   "stored game does not parse",
			Code:    core.CodeInvalidPGN,
			Details: err.Error(),
		})
	}

	// Out of range plies leave the cursor on the last move
	if ply := c.QueryInt("ply", nav.LastMoveIndex()); ply != nav.Cursor() {
		if err := nav.JumpTo(ply); err != nil {
			return h.internal(c, err)
		}
	}

	board := nav.Board()
	return c.JSON(core.ReviewResponse{
		Key:           key.String(),
		Ply:           nav.Cursor(),
		LastMoveIndex: nav.LastMoveIndex(),
		FEN:           board.FEN(),
		History:       board.History(),
		MoveNumber:    nav.MoveNumber(),
		Exchange:      nav.ExchangeNumber(),
	})
}

func (h *Handler) GameValues(c *fiber.Ctx) error {
	key, dump, err := h.lookup(c)
	if err != nil {
		return err
	}

	series, err := analysis.AnalyzePGN(h.factory, dump)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(core.ErrorResponse{
			Error:   "stored game does not parse",
			Code:    core.CodeInvalidPGN,
			Details: err.Error(),
		})
	}

	values := make([]core.MaterialPoint, len(series.Points))
	for i, p := range series.Points {
		values[i] = core.MaterialPoint{White: p.White, Black: p.Black}
	}
	return c.JSON(core.ValuesResponse{
		Key:         key.String(),
		Values:      values,
		PercentStep: series.PercentStep,
	})
}

func (h *Handler) DownloadGame(c *fiber.Ctx) error {
	key, dump, err := h.lookup(c)
	if err != nil {
		return err
	}
	a := export.New(h.downloadPrefix, key, dump)
	return c.JSON(core.DownloadResponse{FileName: a.FileName, DataURI: a.DataURI})
}

func (h *Handler) DeleteGame(c *fiber.Ctx) error {
	key, err := parseKey(c)
	if err != nil {
		return err
	}

	action, err := h.catalog.DeleteGame(key)
	if err != nil {
		if errors.Is(err, core.ErrGameNotFound) {
			return notFound(c, key)
		}
		return h.internal(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(pending(action))
}

func (h *Handler) RestoreGame(c *fiber.Ctx) error {
	key, err := parseKey(c)
	if err != nil {
		return err
	}
	return h.restore(c, key)
}

func (h *Handler) DeleteAllGames(c *fiber.Ctx) error {
	action, err := h.catalog.DeleteAllGames()
	if err != nil {
		return h.internal(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(pending(action))
}

func (h *Handler) RestoreAllGames(c *fiber.Ctx) error {
	return h.restore(c, limbo.DeleteAllKey)
}

func (h *Handler) restore(c *fiber.Ctx, key core.GameKey) error {
	if !h.catalog.Undo(key) {
		return c.Status(fiber.StatusConflict).JSON(core.ErrorResponse{
			Error: "no deletion pending",
			Code:  core.CodeNothingPending,
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetPlayers(c *fiber.Ctx) error {
	white, err := h.store.MostRecentName(true)
	if err != nil {
		return h.internal(c, err)
	}
	black, err := h.store.MostRecentName(false)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(core.PlayersResponse{White: white, Black: black})
}

// PutPlayers stores non-empty names and forgets empty ones
func (h *Handler) PutPlayers(c *fiber.Ctx) error {
	req := c.Locals("validatedBody").(*core.PlayersRequest)

	for _, slot := range []struct {
		name    string
		isWhite bool
	}{{req.White, true}, {req.Black, false}} {
		var err error
		if slot.name == "" {
			err = h.store.RmMostRecentName(slot.isWhite)
		} else {
			err = h.store.SetMostRecentName(slot.name, slot.isWhite)
		}
		if err != nil {
			return h.internal(c, err)
		}
	}
	return h.GetPlayers(c)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(core.ErrorResponse{
		Error: "login is not implemented",
		Code:  core.CodeNotImplemented,
	})
}

// lookup resolves the :key param to a stored dump. Failures come back as
// *fiber.Error for customErrorHandler.
func (h *Handler) lookup(c *fiber.Ctx) (core.GameKey, string, error) {
	key, err := parseKey(c)
	if err != nil {
		return core.NoGameKey, "", err
	}
	dump, ok, err := h.store.Lookup(key)
	if err != nil {
		h.logFailure(c, err)
		return core.NoGameKey, "", fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
	if !ok {
		return core.NoGameKey, "", fiber.NewError(fiber.StatusNotFound, "game not found")
	}
	return key, dump, nil
}

func parseKey(c *fiber.Ctx) (core.GameKey, error) {
	key, err := core.ParseGameKey(c.Params("key"))
	if err != nil || key <= core.NoGameKey {
		return core.NoGameKey, fiber.NewError(fiber.StatusBadRequest, "invalid game key")
	}
	return key, nil
}

func notFound(c *fiber.Ctx, key core.GameKey) error {
	return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
		Error:   "game not found",
		Code:    core.CodeGameNotFound,
		Details: key.String(),
	})
}

func pending(a *limbo.Action) core.PendingResponse {
	key := "all"
	if a.Key != limbo.DeleteAllKey {
		key = a.Key.String()
	}
	return core.PendingResponse{Key: key, Deadline: a.Deadline.UTC().Format(time.RFC3339Nano)}
}

func (h *Handler) logFailure(c *fiber.Ctx, err error) {
	h.log.Error("request failed",
		zap.String("path", c.Path()),
		zap.Any("requestId", c.Locals("requestid")),
		zap.Error(err))
}

func (h *Handler) internal(c *fiber.Ctx, err error) error {
	h.logFailure(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "internal server error",
		Code:  core.CodeInternalError,
	})
}
