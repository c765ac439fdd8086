// Package overlay positions stickers over an image using percentages of the
// container, so placements survive the image being rendered at any size.
package overlay

import "errors"

// ErrEmptyBox is returned when the container has no area.
var ErrEmptyBox = errors.New("container box has no area")

// Point is a pointer location in client coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a container's bounding box in client coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is a placement relative to the container, each axis in [0, 100].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Place maps a pointer location into a percentage position within box.
// Pointers outside the box clamp to its nearest edge.
func Place(p Point, box Rect) (Position, error) {
	if box.Width <= 0 || box.Height <= 0 {
		return Position{}, ErrEmptyBox
	}
	return Position{
		X: (p.X - box.Left) / box.Width * 100,
		Y: (p.Y - box.Top) / box.Height * 100,
	}.Normalize(), nil
}

// Normalize clamps both axes into [0, 100].
func (p Position) Normalize() Position {
	return Position{X: clamp(p.X), Y: clamp(p.Y)}
}

func clamp(v float64) float64 {
	return max(0, min(100, v))
}
