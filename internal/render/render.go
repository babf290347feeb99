// Package render turns a game into what the UI layers draw: per-cell and
// per-board markers, the clickable positions and an emoji text board.
package render

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/tixtax"
)

type Marker string

const (
	MarkerEmpty     Marker = "empty"
	MarkerPlayerOne Marker = "player_one"
	MarkerPlayerTwo Marker = "player_two"
	MarkerActive    Marker = "active"
)

// Level tells which nesting level the legal moves address.
type Level string

const (
	LevelBoard Level = "board"
	LevelCell  Level = "cell"
	LevelNone  Level = "none"
)

const (
	emojiSeparator     = ":white_small_square:"
	emojiEdgeSelected  = ":yellow_circle:"
	emojiNoPlayer      = ":black_large_square:"
	emojiPlayerOne     = ":blue_square:"
	emojiPlayerTwo     = ":red_square:"
	colorPlayerOne     = "#0000ff"
	colorPlayerTwo     = "#ff0000"
	cellsPerSide       = entity.BoardSize * entity.BoardSize
	separatorRowLength = cellsPerSide + 2
)

// Move is one clickable affordance. Owner is the mark shown on it.
type Move struct {
	Position entity.Position `json:"position"`
	Active   bool            `json:"active"`
	Owner    entity.Mark     `json:"owner"`
}

type RenderedBoard struct {
	GameID string `json:"game_id"`
	Title  string `json:"title"`
	Color  string `json:"color"`
	Status string `json:"status"`
	Turn   string `json:"turn,omitempty"`
	Winner string `json:"winner,omitempty"`

	// Cells is the whole 9x9 grid in global row-major coordinates.
	Cells  [cellsPerSide][cellsPerSide]Marker         `json:"cells"`
	Boards [entity.BoardSize][entity.BoardSize]Marker `json:"boards"`
	Level  Level                                      `json:"level"`
	Moves  [entity.BoardSize][entity.BoardSize]Move   `json:"moves"`
	Text   string                                     `json:"text"`
}

// Render builds the presentation of game. It never mutates the game.
func Render(game *entity.Game) RenderedBoard {
	rendered := RenderedBoard{
		GameID: game.ID,
		Title:  fmt.Sprintf("<@%s> (%s) vs <@%s> (%s)", game.PlayerOne, emojiPlayerOne, game.PlayerTwo, emojiPlayerTwo),
		Color:  colorPlayerOne,
		Status: game.Status,
		Level:  level(game),
	}

	if game.Turn == entity.MarkTwo {
		rendered.Color = colorPlayerTwo
	}

	if game.IsFinished() {
		rendered.Winner = game.PlayerByMark(game.Winner)
	} else {
		rendered.Turn = game.CurrentPlayer()
	}

	for by := 0; by < entity.BoardSize; by++ {
		for bx := 0; bx < entity.BoardSize; bx++ {
			boardPos := entity.Position{X: bx, Y: by}
			sub := game.Board.At(boardPos)

			rendered.Boards[by][bx] = markerOf(sub.Owner())
			if isSelected(game, boardPos) {
				rendered.Boards[by][bx] = MarkerActive
			}

			for cy := 0; cy < entity.BoardSize; cy++ {
				for cx := 0; cx < entity.BoardSize; cx++ {
					rendered.Cells[by*entity.BoardSize+cy][bx*entity.BoardSize+cx] = markerOf(sub.At(entity.Position{X: cx, Y: cy}).Owner())
				}
			}
		}
	}

	legal := tixtax.LegalMoves(game)
	for y := range rendered.Moves {
		for x := range rendered.Moves[y] {
			p := entity.Position{X: x, Y: y}
			rendered.Moves[y][x] = Move{Position: p, Active: legal[y][x], Owner: moveOwner(game, p)}
		}
	}

	rendered.Text = Text(game)

	return rendered
}

// Closed renders game with every affordance removed, for sessions that were
// torn down before finishing.
func Closed(game *entity.Game) RenderedBoard {
	rendered := Render(game)
	rendered.Level = LevelNone
	rendered.Turn = ""
	for y := range rendered.Moves {
		for x := range rendered.Moves[y] {
			rendered.Moves[y][x].Active = false
		}
	}

	return rendered
}

// Text renders the big 9x9 board followed by the 3x3 overview, with the
// edges around the selected sub-board highlighted.
func Text(game *entity.Game) string {
	return bigBoard(game) + "\n\n" + smallBoard(game)
}

func level(game *entity.Game) Level {
	switch {
	case game.IsFinished():
		return LevelNone
	case game.Constraint != nil:
		return LevelCell
	default:
		return LevelBoard
	}
}

func moveOwner(game *entity.Game, pos entity.Position) entity.Mark {
	if game.Constraint != nil {
		return game.Board.At(*game.Constraint).At(pos).Owner()
	}

	return game.Board.At(pos).Owner()
}

func isSelected(game *entity.Game, pos entity.Position) bool {
	return game.Constraint != nil && *game.Constraint == pos
}

func markerOf(mark entity.Mark) Marker {
	switch mark {
	case entity.MarkOne:
		return MarkerPlayerOne
	case entity.MarkTwo:
		return MarkerPlayerTwo
	default:
		return MarkerEmpty
	}
}

func emojiOf(mark entity.Mark) string {
	switch mark {
	case entity.MarkOne:
		return emojiPlayerOne
	case entity.MarkTwo:
		return emojiPlayerTwo
	default:
		return emojiNoPlayer
	}
}

func smallBoard(game *entity.Game) string {
	rows := make([]string, 0, entity.BoardSize)
	for y := 0; y < entity.BoardSize; y++ {
		var row strings.Builder
		for x := 0; x < entity.BoardSize; x++ {
			p := entity.Position{X: x, Y: y}
			if isSelected(game, p) {
				row.WriteString(emojiEdgeSelected)
				continue
			}
			row.WriteString(emojiOf(game.Board.At(p).Owner()))
		}
		rows = append(rows, row.String())
	}

	return strings.Join(rows, "\n")
}

// edge returns the separator drawn between two neighbouring sub-boards.
func edge(game *entity.Game, a, b entity.Position) string {
	if isSelected(game, a) || isSelected(game, b) {
		return emojiEdgeSelected
	}

	return emojiSeparator
}

func innerRow(sub *entity.SubBoard, y int) string {
	var row strings.Builder
	for x := 0; x < entity.BoardSize; x++ {
		row.WriteString(emojiOf(sub.At(entity.Position{X: x, Y: y}).Owner()))
	}

	return row.String()
}

func bigRow(game *entity.Game, y int) string {
	left := edge(game, entity.Position{X: 0, Y: y}, entity.Position{X: 1, Y: y})
	right := edge(game, entity.Position{X: 1, Y: y}, entity.Position{X: 2, Y: y})

	rows := make([]string, 0, entity.BoardSize)
	for inner := 0; inner < entity.BoardSize; inner++ {
		rows = append(rows, innerRow(game.Board.At(entity.Position{X: 0, Y: y}), inner)+
			left+
			innerRow(game.Board.At(entity.Position{X: 1, Y: y}), inner)+
			right+
			innerRow(game.Board.At(entity.Position{X: 2, Y: y}), inner))
	}

	return strings.Join(rows, "\n")
}

func rowSeparator(game *entity.Game, upper, lower int) string {
	if game.Constraint == nil {
		return strings.Repeat(emojiSeparator, separatorRowLength)
	}

	parts := make([]string, 0, entity.BoardSize)
	for x := 0; x < entity.BoardSize; x++ {
		parts = append(parts, strings.Repeat(edge(game, entity.Position{X: x, Y: upper}, entity.Position{X: x, Y: lower}), entity.BoardSize))
	}

	return strings.Join(parts, emojiSeparator)
}

func bigBoard(game *entity.Game) string {
	return bigRow(game, 0) + "\n" +
		rowSeparator(game, 0, 1) + "\n" +
		bigRow(game, 1) + "\n" +
		rowSeparator(game, 1, 2) + "\n" +
		bigRow(game, 2)
}
