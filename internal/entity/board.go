package entity

import (
	"errors"
	"fmt"
)

// BoardSize is the width and height of every grid, at every nesting level.
const BoardSize = 3

var ErrInvalidPosition = errors.New("invalid position")

// Mark identifies who owns a cell or a board.
type Mark int

const (
	NoMark Mark = iota
	MarkOne
	MarkTwo
)

// Other returns the opposing mark. NoMark has no opponent.
func (that Mark) Other() Mark {
	switch that {
	case MarkOne:
		return MarkTwo
	case MarkTwo:
		return MarkOne
	default:
		return NoMark
	}
}

func (that Mark) String() string {
	switch that {
	case MarkOne:
		return "one"
	case MarkTwo:
		return "two"
	default:
		return "none"
	}
}

// Position addresses one element of a 3x3 grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Position) Valid() bool {
	return that.X >= 0 && that.X < BoardSize && that.Y >= 0 && that.Y < BoardSize
}

// Index returns the row-major index of the position.
func (that Position) Index() int {
	return that.Y*BoardSize + that.X
}

func (that Position) String() string {
	return fmt.Sprintf("(%d,%d)", that.X, that.Y)
}

// PositionFromIndex converts a row-major index 0..8 back into a position.
func PositionFromIndex(index int) (Position, error) {
	if index < 0 || index >= BoardSize*BoardSize {
		return Position{}, fmt.Errorf("%w: index %d", ErrInvalidPosition, index)
	}

	return Position{X: index % BoardSize, Y: index / BoardSize}, nil
}

// Owner is implemented by anything that can be won: a single cell, or a board
// whose owner is derived from its children.
type Owner interface {
	Owner() Mark
}

// Cell is the smallest unit of ownership.
type Cell struct {
	Mark Mark `json:"mark"`
}

func (that *Cell) Owner() Mark {
	return that.Mark
}

// winLines lists rows, then columns, then both diagonals. The order is the tie-break.
var winLines = [8][3]Position{
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{2, 0}, {1, 1}, {0, 2}},
}

// Board is a 3x3 grid of owners. A board is itself an Owner, so boards nest.
type Board[T Owner] struct {
	Grid [BoardSize][BoardSize]T `json:"grid"`
}

// SubBoard is a grid of cells; SuperBoard is a grid of sub-boards.
type (
	SubBoard   = Board[*Cell]
	SuperBoard = Board[*SubBoard]
)

// At returns the element at (x, y), i.e. grid[y][x].
func (that *Board[T]) At(pos Position) T {
	return that.Grid[pos.Y][pos.X]
}

// Owner returns the mark holding a complete row, column or diagonal, or NoMark.
func (that *Board[T]) Owner() Mark {
	var owners [BoardSize][BoardSize]Mark
	for y := range that.Grid {
		for x := range that.Grid[y] {
			owners[y][x] = that.Grid[y][x].Owner()
		}
	}

	for _, line := range winLines {
		a := owners[line[0].Y][line[0].X]
		b := owners[line[1].Y][line[1].X]
		c := owners[line[2].Y][line[2].X]
		if a != NoMark && a == b && b == c {
			return a
		}
	}

	return NoMark
}

// Full reports whether every child has an owner.
func (that *Board[T]) Full() bool {
	for y := range that.Grid {
		for x := range that.Grid[y] {
			if that.Grid[y][x].Owner() == NoMark {
				return false
			}
		}
	}

	return true
}

// Decided reports whether the board is owned or full and can take no more moves.
func (that *Board[T]) Decided() bool {
	return that.Owner() != NoMark || that.Full()
}

func NewSubBoard() *SubBoard {
	board := &SubBoard{}
	for y := range board.Grid {
		for x := range board.Grid[y] {
			board.Grid[y][x] = &Cell{}
		}
	}

	return board
}

func NewSuperBoard() *SuperBoard {
	board := &SuperBoard{}
	for y := range board.Grid {
		for x := range board.Grid[y] {
			board.Grid[y][x] = NewSubBoard()
		}
	}

	return board
}

// AllDecided reports whether no sub-board can take another move.
func AllDecided(board *SuperBoard) bool {
	for y := range board.Grid {
		for x := range board.Grid[y] {
			if !board.Grid[y][x].Decided() {
				return false
			}
		}
	}

	return true
}
