package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/render"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository/storage"
	"github.com/rocketscienceinc/tixtax-backend/internal/usecase"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	st := storage.NewMemoryStorage()
	hub := NewHub(logger)
	manager := usecase.NewGameManager(logger, repository.NewGameRepository(st), repository.NewInviteRepository(st), hub, usecase.Timeouts{
		Game:         15 * time.Minute,
		OpenInvite:   10 * time.Minute,
		DirectInvite: 5 * time.Minute,
	})

	return NewRouter(logger, NewPingModule(), NewTixTaxModule(logger, manager, hub))
}

func do(t *testing.T, h http.Handler, method, path, player, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if player != "" {
		req.Header.Set(PlayerHeader, player)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))

	return v
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()

	rr := do(t, h, http.MethodPost, "/tixtax/invites", "alice", `{"target":"bob"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	invite := decode[entity.Invite](t, rr)

	rr = do(t, h, http.MethodPost, "/tixtax/invites/"+invite.ID+"/accept", "bob", "")
	require.Equal(t, http.StatusOK, rr.Code)

	return invite.ID
}

func TestPing(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/ping", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestInviteFlow(t *testing.T) {
	t.Run("Accepting a direct invite starts the game", func(t *testing.T) {
		// Given: alice invites bob
		h := newTestServer(t)
		rr := do(t, h, http.MethodPost, "/tixtax/invites", "alice", `{"target":"bob"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		invite := decode[entity.Invite](t, rr)

		// When: carol tries to accept, then bob does
		rr = do(t, h, http.MethodPost, "/tixtax/invites/"+invite.ID+"/accept", "carol", "")
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "that invite is not for you")

		rr = do(t, h, http.MethodPost, "/tixtax/invites/"+invite.ID+"/accept", "bob", "")

		// Then: the board is returned with alice to move
		require.Equal(t, http.StatusOK, rr.Code)
		board := decode[render.RenderedBoard](t, rr)
		assert.Equal(t, "alice", board.Turn)
		assert.Equal(t, render.LevelBoard, board.Level)
	})

	t.Run("Declining removes the invite", func(t *testing.T) {
		h := newTestServer(t)
		rr := do(t, h, http.MethodPost, "/tixtax/invites", "alice", `{"target":"bob"}`)
		invite := decode[entity.Invite](t, rr)

		rr = do(t, h, http.MethodPost, "/tixtax/invites/"+invite.ID+"/decline", "bob", "")
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = do(t, h, http.MethodPost, "/tixtax/invites/"+invite.ID+"/accept", "bob", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Invites need a player and a real opponent", func(t *testing.T) {
		h := newTestServer(t)

		rr := do(t, h, http.MethodPost, "/tixtax/invites", "", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = do(t, h, http.MethodPost, "/tixtax/invites", "alice", `{"target":"alice"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = do(t, h, http.MethodPost, "/tixtax/invites", "alice", `{"target":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMoves(t *testing.T) {
	t.Run("Two step move", func(t *testing.T) {
		// Given: a running session
		h := newTestServer(t)
		id := startSession(t, h)

		// When: alice selects a board, then a cell
		rr := do(t, h, http.MethodPost, "/tixtax/sessions/"+id+"/moves", "alice", `{"x":1,"y":1}`)
		require.Equal(t, http.StatusOK, rr.Code)
		rr = do(t, h, http.MethodPost, "/tixtax/sessions/"+id+"/moves", "alice", `{"x":0,"y":0}`)
		require.Equal(t, http.StatusOK, rr.Code)

		// Then: bob must play in the top-left board
		result := decode[usecase.MoveResult](t, rr)
		assert.Equal(t, "bob", result.Board.Turn)
		assert.Equal(t, render.MarkerActive, result.Board.Boards[0][0])
		assert.Equal(t, render.MarkerPlayerOne, result.Board.Cells[3][3])

		rr = do(t, h, http.MethodGet, "/tixtax/sessions/"+id, "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, result.Board, decode[render.RenderedBoard](t, rr))
	})

	t.Run("Wrong turn gets an ephemeral notice", func(t *testing.T) {
		h := newTestServer(t)
		id := startSession(t, h)

		rr := do(t, h, http.MethodPost, "/tixtax/sessions/"+id+"/moves", "bob", `{"x":1,"y":1}`)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "hey wait for your turn", decode[errorResponse](t, rr).Error)
	})

	t.Run("Illegal move", func(t *testing.T) {
		h := newTestServer(t)
		id := startSession(t, h)

		rr := do(t, h, http.MethodPost, "/tixtax/sessions/"+id+"/moves", "alice", `{"x":4,"y":1}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, decode[errorResponse](t, rr).Error, "illegal move")
	})

	t.Run("Malformed move", func(t *testing.T) {
		h := newTestServer(t)
		id := startSession(t, h)

		rr := do(t, h, http.MethodPost, "/tixtax/sessions/"+id+"/moves", "alice", `nope`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Unknown session", func(t *testing.T) {
		h := newTestServer(t)

		rr := do(t, h, http.MethodGet, "/tixtax/sessions/missing", "", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEvents(t *testing.T) {
	// Given: a running session served over a real listener
	srv := httptest.NewServer(newTestServer(t))
	t.Cleanup(srv.Close)
	h := srv.Config.Handler
	id := startSession(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/tixtax/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// When: alice selects a board
	rr := do(t, h, http.MethodPost, "/tixtax/sessions/"+id+"/moves", "alice", `{"x":2,"y":2}`)
	require.Equal(t, http.StatusOK, rr.Code)

	// Then: observers receive the re-rendered board
	reader := bufio.NewReader(resp.Body)
	var kind, data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)

		switch {
		case strings.HasPrefix(line, "event: "):
			kind = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}

	assert.Equal(t, string(usecase.EventBoard), kind)

	var event usecase.Event
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	require.NotNil(t, event.Board)
	assert.Equal(t, render.MarkerActive, event.Board.Boards[2][2])
}
