package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/render"
	"github.com/rocketscienceinc/tixtax-backend/internal/usecase"
)

// PlayerHeader carries the actor identity established by the chat gateway.
const PlayerHeader = "X-Player-ID"

var heartbeatInterval = 15 * time.Second

type gameManager interface {
	Invite(ctx context.Context, host, target string) (*entity.Invite, error)
	Accept(ctx context.Context, inviteID, actor string) (render.RenderedBoard, error)
	Decline(ctx context.Context, inviteID, actor string) error
	Move(ctx context.Context, gameID, actor string, pos entity.Position) (usecase.MoveResult, error)
	Board(ctx context.Context, gameID string) (render.RenderedBoard, error)
}

type subscriber interface {
	Subscribe(ctx context.Context, sessionID string) <-chan usecase.Event
}

type tixtaxModule struct {
	logger  *slog.Logger
	games   gameManager
	updates subscriber
}

func NewTixTaxModule(logger *slog.Logger, games gameManager, updates subscriber) Module {
	return &tixtaxModule{
		logger:  logger.With("component", "tixtax"),
		games:   games,
		updates: updates,
	}
}

type inviteRequest struct {
	Target string `json:"target"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *tixtaxModule) Routes(r chi.Router) {
	r.Route("/tixtax", func(r chi.Router) {
		r.Post("/invites", that.invite)
		r.Route("/invites/{id}", func(r chi.Router) {
			r.Post("/accept", that.accept)
			r.Post("/decline", that.decline)
		})
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", that.board)
			r.Post("/moves", that.move)
			r.Get("/events", that.events)
		})
	})
}

func (that *tixtaxModule) invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed invite"})
			return
		}
	}

	invite, err := that.games.Invite(r.Context(), r.Header.Get(PlayerHeader), req.Target)
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, invite)
}

func (that *tixtaxModule) accept(w http.ResponseWriter, r *http.Request) {
	board, err := that.games.Accept(r.Context(), chi.URLParam(r, "id"), r.Header.Get(PlayerHeader))
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (that *tixtaxModule) decline(w http.ResponseWriter, r *http.Request) {
	if err := that.games.Decline(r.Context(), chi.URLParam(r, "id"), r.Header.Get(PlayerHeader)); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *tixtaxModule) board(w http.ResponseWriter, r *http.Request) {
	board, err := that.games.Board(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (that *tixtaxModule) move(w http.ResponseWriter, r *http.Request) {
	var pos entity.Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed move"})
		return
	}

	result, err := that.games.Move(r.Context(), chi.URLParam(r, "id"), r.Header.Get(PlayerHeader), pos)
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// events streams every re-render of a session as server-sent events.
func (that *tixtaxModule) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// subscribe before the headers go out so no event after them is missed
	ctx := r.Context()
	updates := that.updates.Subscribe(ctx, chi.URLParam(r, "id"))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event, ok := <-updates:
			if !ok {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				that.logger.Error("failed to marshal event", "error", err)
				continue
			}

			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload)
			flusher.Flush()

			// timeouts and declines tear the surface down
			if event.Kind == usecase.EventTimeout || event.Kind == usecase.EventDeclined {
				return
			}
		}
	}
}

// writeError answers only the requesting actor; the shared board is untouched.
func (that *tixtaxModule) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, apperror.ErrWrongTurn):
		status, message = http.StatusForbidden, apperror.ErrWrongTurn.Error()
	case errors.Is(err, apperror.ErrInviteNotForYou):
		status, message = http.StatusForbidden, apperror.ErrInviteNotForYou.Error()
	case errors.Is(err, apperror.ErrIllegalMove):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperror.ErrInvalidSessionState):
		status, message = http.StatusConflict, apperror.ErrInvalidSessionState.Error()
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrInviteNotFound):
		status, message = http.StatusNotFound, "session not found"
	case errors.Is(err, apperror.ErrSelfInvite), errors.Is(err, apperror.ErrMissingPlayer):
		status, message = http.StatusBadRequest, err.Error()
	default:
		that.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
