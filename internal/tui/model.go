// Package tui is a terminal client for a local tixtax game. Two people share
// the keyboard, or one plays against the random bot.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/render"
	"github.com/rocketscienceinc/tixtax-backend/internal/service"
	"github.com/rocketscienceinc/tixtax-backend/internal/tixtax"
)

const botDelay = 400 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	activeStyle = lipgloss.NewStyle().Background(lipgloss.Color("#3A3A00"))

	markerStyles = map[render.Marker]lipgloss.Style{
		render.MarkerEmpty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		render.MarkerPlayerOne: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		render.MarkerPlayerTwo: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
	}
	markerGlyphs = map[render.Marker]string{
		render.MarkerEmpty:     "·",
		render.MarkerPlayerOne: "X",
		render.MarkerPlayerTwo: "O",
	}
)

// botMoveMsg asks the model to let the bot play.
type botMoveMsg struct{}

// Model is the bubbletea model of one local game.
type Model struct {
	game    *entity.Game
	bot     service.BotService
	botMark entity.Mark

	cursor entity.Position
	err    error
}

// NewModel starts a game between playerOne and playerTwo. When bot is not nil
// it plays botMark.
func NewModel(playerOne, playerTwo string, bot service.BotService, botMark entity.Mark) *Model {
	return &Model{
		game:    tixtax.NewGame("local", playerOne, playerTwo),
		bot:     bot,
		botMark: botMark,
		cursor:  entity.Position{X: 1, Y: 1},
	}
}

func (m *Model) Init() tea.Cmd {
	return m.maybeBot()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case botMoveMsg:
		_, m.err = m.bot.MakeTurn(m.game)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.cursor.Y = max(0, m.cursor.Y-1)
		case "down", "j":
			m.cursor.Y = min(entity.BoardSize-1, m.cursor.Y+1)
		case "left", "h":
			m.cursor.X = max(0, m.cursor.X-1)
		case "right", "l":
			m.cursor.X = min(entity.BoardSize-1, m.cursor.X+1)
		case "enter", " ":
			return m, m.play()
		}
	}

	return m, nil
}

func (m *Model) play() tea.Cmd {
	if m.botsTurn() {
		return nil
	}

	if _, m.err = tixtax.ApplyMove(m.game, m.cursor); m.err != nil {
		return nil
	}

	return m.maybeBot()
}

func (m *Model) botsTurn() bool {
	return m.bot != nil && !m.game.IsFinished() && m.game.Turn == m.botMark
}

func (m *Model) maybeBot() tea.Cmd {
	if !m.botsTurn() {
		return nil
	}

	return tea.Tick(botDelay, func(time.Time) tea.Msg { return botMoveMsg{} })
}

func (m *Model) View() string {
	board := render.Render(m.game)

	title := titleStyle.Render(fmt.Sprintf("%s (X) vs %s (O)", m.game.PlayerOne, m.game.PlayerTwo))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		boardStyle.Render(m.grid(board)),
		m.status(board),
		hintStyle.Render("arrows/hjkl move · enter place · q quit"),
	)
}

func (m *Model) status(board render.RenderedBoard) string {
	var line string
	switch {
	case m.game.Status == entity.StatusWon:
		line = fmt.Sprintf("%s WON!", board.Winner)
	case m.game.Status == entity.StatusDraw:
		line = "it's a draw!"
	case board.Level == render.LevelBoard:
		line = fmt.Sprintf("%s, pick a board", board.Turn)
	default:
		line = fmt.Sprintf("%s, pick a cell", board.Turn)
	}

	if m.err != nil {
		line += "\n" + errStyle.Render(m.err.Error())
	}

	return line
}

// grid draws the 9x9 board. The cursor covers a whole sub-board while a board
// is being picked and a single cell inside the constraint otherwise.
func (m *Model) grid(board render.RenderedBoard) string {
	var sb strings.Builder

	for row := range board.Cells {
		if row > 0 && row%entity.BoardSize == 0 {
			sb.WriteString(strings.Repeat("──", entity.BoardSize) + "┼" + strings.Repeat("──", entity.BoardSize) + "┼" + strings.Repeat("──", entity.BoardSize) + "\n")
		}

		for col, marker := range board.Cells[row] {
			if col > 0 && col%entity.BoardSize == 0 {
				sb.WriteString("│")
			}

			glyph := markerStyles[marker].Render(markerGlyphs[marker])
			switch {
			case m.underCursor(board, row, col):
				glyph = cursorStyle.Render(markerGlyphs[marker])
			case board.Boards[row/entity.BoardSize][col/entity.BoardSize] == render.MarkerActive:
				glyph = activeStyle.Render(markerGlyphs[marker])
			}

			sb.WriteString(glyph + " ")
		}

		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) underCursor(board render.RenderedBoard, row, col int) bool {
	sub := entity.Position{X: col / entity.BoardSize, Y: row / entity.BoardSize}
	cell := entity.Position{X: col % entity.BoardSize, Y: row % entity.BoardSize}

	switch board.Level {
	case render.LevelBoard:
		return sub == m.cursor
	case render.LevelCell:
		return m.game.Constraint != nil && sub == *m.game.Constraint && cell == m.cursor
	default:
		return false
	}
}
