package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/render"
	"github.com/rocketscienceinc/tixtax-backend/internal/tixtax"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Game, error)
}

type inviteRepo interface {
	CreateOrUpdate(ctx context.Context, invite *entity.Invite) error
	GetByID(ctx context.Context, id string) (*entity.Invite, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Invite, error)
}

type notifier interface {
	Publish(ctx context.Context, event Event)
}

// Timeouts are the inactivity windows after which sessions are abandoned.
type Timeouts struct {
	Game         time.Duration
	OpenInvite   time.Duration
	DirectInvite time.Duration
}

// MoveResult is returned for every accepted move.
type MoveResult struct {
	Outcome tixtax.Outcome       `json:"outcome"`
	Board   render.RenderedBoard `json:"board"`
}

// GameManager hosts tixtax sessions: it turns invites into games, guards turns,
// applies moves and abandons idle sessions.
type GameManager struct {
	logger     *slog.Logger
	gameRepo   gameRepo
	inviteRepo inviteRepo
	notifier   notifier
	timeouts   Timeouts

	locks *sessionLocks
	now   func() time.Time
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, inviteRepo inviteRepo, notifier notifier, timeouts Timeouts) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		inviteRepo: inviteRepo,
		notifier:   notifier,
		timeouts:   timeouts,

		locks: newSessionLocks(),
		now:   time.Now,
	}
}

// Invite opens a new session. An empty target lets anyone but the host accept.
func (that *GameManager) Invite(ctx context.Context, host, target string) (*entity.Invite, error) {
	if host == "" {
		return nil, apperror.ErrMissingPlayer
	}

	if host == target {
		return nil, apperror.ErrSelfInvite
	}

	timeout := that.timeouts.OpenInvite
	message := fmt.Sprintf("<@%s> wants to play tixtax with somebody!", host)
	if target != "" {
		timeout = that.timeouts.DirectInvite
		message = fmt.Sprintf("<@%s>, <@%s> wants to play tixtax with you!", target, host)
	}

	invite := &entity.Invite{
		ID:        uuid.NewString(),
		Host:      host,
		Target:    target,
		ExpiresAt: that.now().Add(timeout),
	}

	if err := that.inviteRepo.CreateOrUpdate(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	that.notifier.Publish(ctx, Event{Kind: EventInvite, SessionID: invite.ID, Message: message})

	that.logger.Info("invite created", "invite", invite.ID, "host", host, "target", target)

	return invite, nil
}

// Accept turns the invite into a game on the same session id, host playing first.
func (that *GameManager) Accept(ctx context.Context, inviteID, actor string) (render.RenderedBoard, error) {
	unlock := that.locks.Lock(inviteID)
	defer unlock()

	invite, err := that.getInvite(ctx, inviteID)
	if err != nil {
		return render.RenderedBoard{}, err
	}

	if !invite.CanAnswer(actor) {
		return render.RenderedBoard{}, apperror.ErrInviteNotForYou
	}

	game := tixtax.NewGame(invite.ID, invite.Host, actor)
	game.ExpiresAt = that.now().Add(that.timeouts.Game)

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return render.RenderedBoard{}, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.inviteRepo.DeleteByID(ctx, invite.ID); err != nil {
		return render.RenderedBoard{}, fmt.Errorf("failed to delete invite: %w", err)
	}

	board := render.Render(game)
	that.notifier.Publish(ctx, Event{Kind: EventBoard, SessionID: game.ID, Board: &board})

	that.logger.Info("game started", "game", game.ID, "player_one", game.PlayerOne, "player_two", game.PlayerTwo)

	return board, nil
}

// Decline lets the target refuse a direct invite, or the host withdraw any invite.
func (that *GameManager) Decline(ctx context.Context, inviteID, actor string) error {
	unlock := that.locks.Lock(inviteID)
	defer unlock()

	invite, err := that.getInvite(ctx, inviteID)
	if err != nil {
		return err
	}

	message := msgDeclined
	switch {
	case actor != "" && actor == invite.Host:
		message = msgWithdrawn
	case invite.IsOpen() || !invite.CanAnswer(actor):
		return apperror.ErrInviteNotForYou
	}

	if err = that.inviteRepo.DeleteByID(ctx, invite.ID); err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}

	that.notifier.Publish(ctx, Event{Kind: EventDeclined, SessionID: invite.ID, Message: message})

	return nil
}

// Move checks the actor's turn and applies pos. Rejected moves change nothing
// and are not published; the caller reports them to the actor alone.
func (that *GameManager) Move(ctx context.Context, gameID, actor string, pos entity.Position) (MoveResult, error) {
	log := that.logger.With("method", "Move", "game", gameID)

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGame(ctx, gameID)
	if err != nil {
		return MoveResult{}, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return MoveResult{}, err
	}

	if err = tixtax.CheckTurn(game, actor); err != nil {
		return MoveResult{}, err
	}

	outcome, err := tixtax.ApplyMove(game, pos)
	if err != nil {
		return MoveResult{Outcome: outcome}, fmt.Errorf("failed to apply move: %w", err)
	}

	game.ExpiresAt = that.now().Add(that.timeouts.Game)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return MoveResult{}, fmt.Errorf("failed to update game: %w", err)
	}

	board := render.Render(game)
	event := Event{Kind: EventBoard, SessionID: game.ID, Board: &board}

	switch outcome.Kind {
	case tixtax.OutcomeWon:
		event.Kind = EventFinished
		event.Message = fmt.Sprintf("player <@%s> WON!", outcome.Winner)
		log.Info("game won", "winner", outcome.Winner)
	case tixtax.OutcomeDraw:
		event.Kind = EventFinished
		event.Message = msgDraw
		log.Info("game drawn")
	}

	that.notifier.Publish(ctx, event)

	return MoveResult{Outcome: outcome, Board: board}, nil
}

// Board returns the current rendering of a session.
func (that *GameManager) Board(ctx context.Context, gameID string) (render.RenderedBoard, error) {
	game, err := that.getGame(ctx, gameID)
	if err != nil {
		return render.RenderedBoard{}, err
	}

	return render.Render(game), nil
}

// Sweep abandons every expired invite and game, publishing the timeout notice
// for sessions that were still waiting on someone. It returns how many were removed.
func (that *GameManager) Sweep(ctx context.Context) (int, error) {
	now := that.now()
	removed := 0

	invites, err := that.inviteRepo.List(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to list invites: %w", err)
	}

	for _, invite := range invites {
		if !invite.Expired(now) {
			continue
		}

		ok, err := that.expireInvite(ctx, invite.ID, now)
		if err != nil {
			return removed, err
		}

		if ok {
			removed++
		}
	}

	games, err := that.gameRepo.List(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to list games: %w", err)
	}

	for _, game := range games {
		if !game.Expired(now) {
			continue
		}

		ok, err := that.expireGame(ctx, game.ID, now)
		if err != nil {
			return removed, err
		}

		if ok {
			removed++
		}
	}

	return removed, nil
}

// RunJanitor sweeps on every tick until ctx is done.
func (that *GameManager) RunJanitor(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "RunJanitor")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := that.Sweep(ctx)
			if err != nil {
				log.Error("failed to sweep sessions", "error", err)
				continue
			}

			if removed > 0 {
				log.Debug("sessions abandoned", "count", removed)
			}
		}
	}
}

// expireInvite re-reads the invite under its lock; an answer may have raced the sweep.
func (that *GameManager) expireInvite(ctx context.Context, id string, now time.Time) (bool, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	invite, err := that.inviteRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrInviteNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get invite: %w", err)
	}

	if !invite.Expired(now) {
		return false, nil
	}

	if err = that.inviteRepo.DeleteByID(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete invite: %w", err)
	}

	that.notifier.Publish(ctx, Event{Kind: EventTimeout, SessionID: id, Message: msgInviteTimedOut})

	return true, nil
}

func (that *GameManager) expireGame(ctx context.Context, id string, now time.Time) (bool, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get game: %w", err)
	}

	if !game.Expired(now) {
		return false, nil
	}

	if err = that.gameRepo.DeleteByID(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete game: %w", err)
	}

	// finished games already announced their result
	if !game.IsFinished() {
		board := render.Closed(game)
		that.notifier.Publish(ctx, Event{Kind: EventTimeout, SessionID: id, Message: msgGameTimedOut, Board: &board})
	}

	return true, nil
}

func (that *GameManager) getInvite(ctx context.Context, id string) (*entity.Invite, error) {
	invite, err := that.inviteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}

	if invite.Expired(that.now()) {
		return nil, apperror.ErrInviteNotFound
	}

	return invite, nil
}

func (that *GameManager) getGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if game.Expired(that.now()) {
		return nil, apperror.ErrGameNotFound
	}

	return game, nil
}
