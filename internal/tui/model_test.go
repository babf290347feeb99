package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/service"
)

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}

		_, cmd = m.Update(msg)
	}

	return cmd
}

func TestModel_HotSeat(t *testing.T) {
	t.Run("Cursor picks a board then a cell", func(t *testing.T) {
		// Given: a new hot-seat game with the cursor in the centre
		m := NewModel("alice", "bob", nil, entity.NoMark)

		// When: enter selects the centre board, then up-left places in its corner
		press(m, "enter", "up", "left", "enter")

		// Then: the mark is placed and bob is sent to the top-left board
		require.NoError(t, m.err)
		assert.Equal(t, entity.MarkOne, m.game.Board.At(entity.Position{X: 1, Y: 1}).At(entity.Position{X: 0, Y: 0}).Mark)
		assert.Equal(t, entity.MarkTwo, m.game.Turn)
		require.NotNil(t, m.game.Constraint)
		assert.Equal(t, entity.Position{X: 0, Y: 0}, *m.game.Constraint)
		assert.Contains(t, m.View(), "bob, pick a cell")
	})

	t.Run("Cursor stays on the board", func(t *testing.T) {
		m := NewModel("alice", "bob", nil, entity.NoMark)

		press(m, "h", "h", "h", "k", "k", "k")

		assert.Equal(t, entity.Position{X: 0, Y: 0}, m.cursor)

		press(m, "l", "l", "l", "j", "j", "j")

		assert.Equal(t, entity.Position{X: 2, Y: 2}, m.cursor)
	})

	t.Run("Illegal moves are shown and change nothing", func(t *testing.T) {
		// Given: alice placed in the centre of the centre board
		m := NewModel("alice", "bob", nil, entity.NoMark)
		press(m, "enter", "enter")

		// When: bob tries the same cell
		press(m, "enter")

		// Then: the error is reported and it is still bob's turn
		require.ErrorIs(t, m.err, apperror.ErrIllegalMove)
		assert.Equal(t, entity.MarkTwo, m.game.Turn)
		assert.Contains(t, m.View(), "illegal move")
	})

	t.Run("q quits", func(t *testing.T) {
		m := NewModel("alice", "bob", nil, entity.NoMark)

		cmd := press(m, "q")

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestModel_Bot(t *testing.T) {
	t.Run("Bot answers a human turn", func(t *testing.T) {
		// Given: alice against the bot
		m := NewModel("alice", "bot", service.NewBotService(entity.MarkTwo, 3), entity.MarkTwo)
		assert.Nil(t, m.Init())

		// When: alice completes her turn
		cmd := press(m, "enter", "enter")
		require.NotNil(t, cmd)

		// Then: keys are ignored until the bot has played
		press(m, "enter")
		assert.Equal(t, entity.MarkTwo, m.game.Turn)

		m.Update(botMoveMsg{})
		require.NoError(t, m.err)
		assert.Equal(t, entity.MarkOne, m.game.Turn)
	})

	t.Run("Bot opens when it plays first", func(t *testing.T) {
		m := NewModel("bot", "alice", service.NewBotService(entity.MarkOne, 3), entity.MarkOne)

		require.NotNil(t, m.Init())

		m.Update(botMoveMsg{})
		assert.Equal(t, entity.MarkTwo, m.game.Turn)
	})
}
