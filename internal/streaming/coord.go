package streaming

import "fmt"

// Coord identifies a chunk on the integer grid. Chunk (x, y) is centered at
// (x, y) * mesh world size.
type Coord struct {
	X, Y int
}

// Add returns the sum of two coordinates.
func (c Coord) Add(other Coord) Coord {
	return Coord{c.X + other.X, c.Y + other.Y}
}

// Less orders coordinates row by row.
func (c Coord) Less(other Coord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
