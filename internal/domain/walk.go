package domain

import "fmt"

// Position is a cell coordinate; X grows rightwards and Y downwards.
type Position struct {
	X int
	Y int
}

// Bounds is the size of the grid a walk is confined to.
type Bounds struct {
	Width  int
	Height int
}

// DefaultBounds is the classic 17x9 fingerprint field. Both sides are odd so
// the walk starts on a true center cell.
var DefaultBounds = Bounds{Width: 17, Height: 9}

// MaxSide is the largest accepted width or height.
const MaxSide = 1024

// Validate reports whether the bounds describe a usable grid.
func (b Bounds) Validate() error {
	if b.Width < 1 || b.Height < 1 {
		return &ValidationError{Field: "bounds", Reason: fmt.Sprintf("grid must be at least 1x1, got %dx%d", b.Width, b.Height)}
	}
	if b.Width > MaxSide || b.Height > MaxSide {
		return &ValidationError{Field: "bounds", Reason: fmt.Sprintf("grid must be at most %dx%d, got %dx%d", MaxSide, MaxSide, b.Width, b.Height)}
	}
	return nil
}

// Center returns the starting cell of every walk.
func (b Bounds) Center() Position {
	return Position{X: b.Width / 2, Y: b.Height / 2}
}

// Contains reports whether p lies inside the grid.
func (b Bounds) Contains(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Move applies d to p, clamping each axis on its own. A diagonal move against
// a wall therefore slides along that wall instead of being dropped.
func (b Bounds) Move(p Position, d Direction) Position {
	return Position{
		X: clamp(p.X+d.DX, 0, b.Width-1),
		Y: clamp(p.Y+d.DY, 0, b.Height-1),
	}
}

// Direction is a single move of the cursor.
type Direction struct {
	DX int
	DY int
}

// DirectionTable maps nibble%8 to a move: N, S, W, E, NW, NE, SW, SE.
var DirectionTable = [8]Direction{
	{DX: 0, DY: -1},
	{DX: 0, DY: 1},
	{DX: -1, DY: 0},
	{DX: 1, DY: 0},
	{DX: -1, DY: -1},
	{DX: 1, DY: -1},
	{DX: -1, DY: 1},
	{DX: 1, DY: 1},
}

// DirectionFor returns the move a nibble selects.
func DirectionFor(nibble uint8) Direction {
	return DirectionTable[nibble%8]
}

// Walk is the complete result of running the cursor over some data: every
// position visited, in order, and how often each cell was entered.
type Walk struct {
	Bounds Bounds
	Start  Position
	Steps  []Position
	Counts [][]int
}

// NewWalk runs the cursor from the center of b, one step per nibble of data.
// The start cell is not counted unless the walk returns to it.
func NewWalk(b Bounds, data []byte) Walk {
	w := Walk{
		Bounds: b,
		Start:  b.Center(),
		Counts: make([][]int, b.Height),
	}
	for y := range w.Counts {
		w.Counts[y] = make([]int, b.Width)
	}

	nibbles := Nibbles(data)
	w.Steps = make([]Position, 0, len(nibbles))

	cursor := w.Start
	for _, n := range nibbles {
		cursor = b.Move(cursor, DirectionFor(n))
		w.Counts[cursor.Y][cursor.X]++
		w.Steps = append(w.Steps, cursor)
	}
	return w
}

// GenerateWalk decodes id and walks it over b.
func GenerateWalk(id string, b Bounds) (Walk, error) {
	if err := b.Validate(); err != nil {
		return Walk{}, err
	}
	data, err := DecodeIdentifier(id)
	if err != nil {
		return Walk{}, err
	}
	return NewWalk(b, data), nil
}

// End returns the last visited cell. ok is false for an empty walk.
func (w Walk) End() (_ Position, ok bool) {
	if len(w.Steps) == 0 {
		return Position{}, false
	}
	return w.Steps[len(w.Steps)-1], true
}

// Count returns how many times p was entered.
func (w Walk) Count(p Position) int {
	if !w.Bounds.Contains(p) {
		return 0
	}
	return w.Counts[p.Y][p.X]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
