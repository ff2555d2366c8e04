package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslog/internal/catalog"
	"chesslog/internal/core"
	"chesslog/internal/history"
	"chesslog/internal/limbo"
	"chesslog/internal/rules"
	"chesslog/internal/storage"
)

const sample = "[White \"Ann\"]\n[Black \"Ben\"]\n\n1. e4 d5 2. exd5 Qxd5 3. Nc3 *"

type testServer struct {
	app   *fiber.App
	store *history.Store
}

func newTestServer(t *testing.T, delay time.Duration) *testServer {
	t.Helper()
	store := history.New(storage.NewMemoryStore(), 0, nil)
	registry := limbo.NewRegistry(nil)
	t.Cleanup(func() { registry.Shutdown(time.Second) })

	h := NewHandler(Deps{
		Store:   store,
		Catalog: catalog.New(store, rules.DefaultFactory, registry, delay, nil),
		Factory: rules.DefaultFactory,
	})
	return &testServer{app: NewFiberApp(h, true), store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, time.Millisecond)
	var body map[string]interface{}
	assert.Equal(t, fiber.StatusOK, s.do(t, "GET", "/health", "", &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestUploadAndRead(t *testing.T) {
	s := newTestServer(t, time.Millisecond)

	payload, _ := json.Marshal(core.UploadRequest{PGN: sample})
	var created map[string]string
	require.Equal(t, fiber.StatusCreated, s.do(t, "POST", "/api/v1/games", string(payload), &created))
	key := created["key"]
	require.NotEmpty(t, key)

	var list []core.GameSummary
	require.Equal(t, fiber.StatusOK, s.do(t, "GET", "/api/v1/games", "", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Ann", list[0].White)
	assert.Equal(t, 5, list[0].Moves)

	var game core.GameResponse
	require.Equal(t, fiber.StatusOK, s.do(t, "GET", "/api/v1/games/"+key, "", &game))
	assert.Contains(t, game.Metadata, `[White "Ann"]`)
	assert.NotEmpty(t, game.Moves)

	var review core.ReviewResponse
	require.Equal(t, fiber.StatusOK, s.do(t, "GET", "/api/v1/games/"+key+"/review?ply=1", "", &review))
	assert.Equal(t, 1, review.Ply)
	assert.Equal(t, 4, review.LastMoveIndex)
	assert.Equal(t, []string{"e4", "d5"}, review.History)

	require.Equal(t, fiber.StatusOK, s.do(t, "GET", "/api/v1/games/"+key+"/review?ply=99", "", &review))
	assert.Equal(t, 4, review.Ply)

	var values core.ValuesResponse
	require.Equal(t, fiber.StatusOK, s.do(t, "GET", "/api/v1/games/"+key+"/values", "", &values))
	assert.Equal(t, []core.MaterialPoint{{White: 39, Black: 39}, {White: 38, Black: 38}}, values.Values)

	var dl core.DownloadResponse
	require.Equal(t, fiber.StatusOK, s.do(t, "GET", "/api/v1/games/"+key+"/download", "", &dl))
	assert.Equal(t, "chesslog_game_"+key+".txt", dl.FileName)
	assert.True(t, strings.HasPrefix(dl.DataURI, "data:application/octet-stream;base64,"))
}

func TestUploadRejects(t *testing.T) {
	s := newTestServer(t, time.Millisecond)
	var e core.ErrorResponse

	assert.Equal(t, fiber.StatusBadRequest, s.do(t, "POST", "/api/v1/games", `{"pgn":""}`, &e))
	assert.Equal(t, core.CodeInvalidRequest, e.Code)

	assert.Equal(t, fiber.StatusBadRequest, s.do(t, "POST", "/api/v1/games", `{"pgn":"1. e4 e5 2. Qh8 *"}`, &e))
	assert.Equal(t, core.CodeInvalidPGN, e.Code)
}

func TestMissingGame(t *testing.T) {
	s := newTestServer(t, time.Millisecond)
	var e core.ErrorResponse
	assert.Equal(t, fiber.StatusNotFound, s.do(t, "GET", "/api/v1/games/123", "", &e))
	assert.Equal(t, core.CodeGameNotFound, e.Code)

	assert.Equal(t, fiber.StatusBadRequest, s.do(t, "GET", "/api/v1/games/zero", "", &e))
	assert.Equal(t, fiber.StatusBadRequest, s.do(t, "GET", "/api/v1/games/0", "", &e))
}

func TestDeleteAndRestore(t *testing.T) {
	s := newTestServer(t, time.Hour)
	_, err := s.store.Write(77, sample)
	require.NoError(t, err)

	var p core.PendingResponse
	require.Equal(t, fiber.StatusAccepted, s.do(t, "DELETE", "/api/v1/games/77", "", &p))
	assert.Equal(t, "77", p.Key)

	assert.Equal(t, fiber.StatusNoContent, s.do(t, "POST", "/api/v1/games/77/restore", "", nil))
	var e core.ErrorResponse
	assert.Equal(t, fiber.StatusConflict, s.do(t, "POST", "/api/v1/games/77/restore", "", &e))
	assert.Equal(t, core.CodeNothingPending, e.Code)

	require.Equal(t, fiber.StatusAccepted, s.do(t, "DELETE", "/api/v1/games", "", &p))
	assert.Equal(t, "all", p.Key)
	assert.Equal(t, fiber.StatusNoContent, s.do(t, "POST", "/api/v1/games/restore", "", nil))

	n, err := s.store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteCommits(t *testing.T) {
	s := newTestServer(t, 10*time.Millisecond)
	_, err := s.store.Write(77, sample)
	require.NoError(t, err)

	require.Equal(t, fiber.StatusAccepted, s.do(t, "DELETE", "/api/v1/games/77", "", nil))
	assert.Eventually(t, func() bool {
		n, err := s.store.Len()
		return err == nil && n == 0
	}, time.Second, 5*time.Millisecond)
}

func TestPlayers(t *testing.T) {
	s := newTestServer(t, time.Millisecond)

	var players core.PlayersResponse
	require.Equal(t, fiber.StatusOK, s.do(t, "PUT", "/api/v1/settings/players", `{"white":"Ann","black":"Ben"}`, &players))
	assert.Equal(t, core.PlayersResponse{White: "Ann", Black: "Ben"}, players)

	require.Equal(t, fiber.StatusOK, s.do(t, "PUT", "/api/v1/settings/players", `{"white":"Cy"}`, &players))
	assert.Equal(t, core.PlayersResponse{White: "Cy"}, players)
}

func TestLoginNotImplemented(t *testing.T) {
	s := newTestServer(t, time.Millisecond)
	var e core.ErrorResponse
	assert.Equal(t, fiber.StatusNotImplemented, s.do(t, "POST", "/api/v1/login", "", &e))
	assert.Equal(t, core.CodeNotImplemented, e.Code)
}

func TestContentType(t *testing.T) {
	s := newTestServer(t, time.Millisecond)
	req := httptest.NewRequest("POST", "/api/v1/games", strings.NewReader("pgn"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}
