package sprite

import "fmt"

// FixedAtlas is a texture divided into equally sized cells, numbered
// row by row from the top-left.
type FixedAtlas struct {
	CellSize    Size
	TextureSize Size
}

// Columns returns the number of cells per row.
func (a FixedAtlas) Columns() int {
	if a.CellSize.W <= 0 {
		return 0
	}
	return a.TextureSize.W / a.CellSize.W
}

// Rows returns the number of cell rows.
func (a FixedAtlas) Rows() int {
	if a.CellSize.H <= 0 {
		return 0
	}
	return a.TextureSize.H / a.CellSize.H
}

// CellCount returns the number of whole cells in the texture.
func (a FixedAtlas) CellCount() int { return a.Columns() * a.Rows() }

// Frame returns the texel rectangle of cell index.
func (a FixedAtlas) Frame(index int) (Rect, error) {
	cols := a.Columns()
	if index < 0 || index >= a.CellCount() {
		return Rect{}, fmt.Errorf("%w: %d of %d", ErrFrameOutOfRange, index, a.CellCount())
	}
	return Rect{
		X: index % cols * a.CellSize.W,
		Y: index / cols * a.CellSize.H,
		W: a.CellSize.W,
		H: a.CellSize.H,
	}, nil
}
