package sprite

import (
	"fmt"

	"github.com/gogpu/sprite/asset"
	"github.com/gogpu/sprite/font"
	"github.com/gogpu/sprite/internal/gpu"
)

// Item is one drawable queued for the current frame.
type Item struct {
	// Position places the shape in world units. Z orders items: lower Z
	// draws first.
	Position Vec3

	// Material is a weak handle; it is resolved when the frame renders.
	Material asset.Handle[Material]

	Shape Shape
}

// Shape is the payload of an [Item]. It is implemented by [SpriteShape],
// [QuadShape], [NineSliceShape], [TextShape] and [TileMapShape].
type Shape interface {
	// appendInstances expands the shape at pos into GPU instances. tex is
	// the size of the material's primary texture, zero for untextured
	// materials.
	appendInstances(dst []gpu.Instance, pos Vec3, tex Size) ([]gpu.Instance, error)
}

// Rotation is a counter-clockwise rotation in quarter turns.
type Rotation uint8

// Quarter-turn rotations.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Anchor selects which corner of a sprite Position refers to.
type Anchor uint8

const (
	// AnchorLowerLeft places the lower-left corner of the rotated sprite
	// at Position.
	AnchorLowerLeft Anchor = iota
	// AnchorUpperLeft places the upper-left corner of the rotated sprite
	// at Position.
	AnchorUpperLeft
)

// SpriteShape draws a region of the material's primary texture.
type SpriteShape struct {
	// Region is the texel rectangle to draw. The zero Rect selects the
	// whole texture.
	Region Rect
	// Scale is an integer magnification. 0 means 1.
	Scale uint8
	// Rotation turns the sprite counter-clockwise. Quarter turns swap the
	// width and height of the footprint.
	Rotation Rotation
	FlipX    bool
	FlipY    bool
	// Pivot is the point of the rotated footprint placed at Position, in
	// unit space measured from the Anchor corner. (0.5,0.5) centers the
	// sprite on Position.
	Pivot  Vec2
	Anchor Anchor
	// Color tints the texels. The zero Color draws untinted.
	Color Color
}

func (s SpriteShape) appendInstances(dst []gpu.Instance, pos Vec3, tex Size) ([]gpu.Instance, error) {
	region := s.Region
	if region.Empty() {
		region = Rect{W: tex.W, H: tex.H}
	}
	scale := float32(max(s.Scale, 1))
	w, h := float32(region.W)*scale, float32(region.H)*scale

	rot := s.Rotation % 4
	fw, fh := w, h
	if rot%2 == 1 {
		fw, fh = h, w
	}
	px, py := s.Pivot.X, s.Pivot.Y
	if s.Anchor == AnchorUpperLeft {
		py = 1 - py
	}
	lowerLeft := Vec2{X: pos.X - px*fw, Y: pos.Y - py*fh}
	at := lowerLeft.Add(rotationOrigin(rot, w, h))

	uv := uvRect(region, tex)
	if s.FlipX {
		uv[0], uv[2] = uv[2], uv[0]
	}
	if s.FlipY {
		uv[1], uv[3] = uv[3], uv[1]
	}

	return append(dst, gpu.Instance{
		Position: [2]float32{at.X, at.Y},
		Size:     [2]float32{w, h},
		UV:       uv,
		Color:    s.Color.orWhite().Premultiplied(),
		Rotation: uint32(rot),
	}), nil
}

// rotationOrigin returns where the unrotated lower-left corner of a w x h
// quad ends up, relative to the lower-left corner of its footprint, after
// rot quarter turns around that corner.
func rotationOrigin(rot Rotation, w, h float32) Vec2 {
	switch rot {
	case Rotate90:
		return Vec2{X: h}
	case Rotate180:
		return Vec2{X: w, Y: h}
	case Rotate270:
		return Vec2{Y: w}
	default:
		return Vec2{}
	}
}

// QuadShape draws a solid colored rectangle. It is meant for KindQuad
// materials.
type QuadShape struct {
	Size Vec2
	// Pivot is the placement origin in unit quad space.
	Pivot Vec2
	Color Color
}

func (q QuadShape) appendInstances(dst []gpu.Instance, pos Vec3, _ Size) ([]gpu.Instance, error) {
	return append(dst, gpu.Instance{
		Position: [2]float32{pos.X, pos.Y},
		Size:     [2]float32{q.Size.X, q.Size.Y},
		Pivot:    [2]float32{q.Pivot.X, q.Pivot.Y},
		Color:    q.Color.Premultiplied(),
	}), nil
}

// Slices are the border widths of a nine-slice, in texels.
type Slices struct {
	Left, Top, Right, Bottom int
}

// NineSliceShape draws a texture region at Size while keeping its borders
// unscaled. Edges stretch along their length; the center is tiled with
// whole texels, cropping the last column and row.
type NineSliceShape struct {
	// Region is the source rectangle. The zero Rect selects the whole
	// texture.
	Region Rect
	Slices Slices
	// Size is the drawn size in world units.
	Size  Size
	Color Color
}

// NineSliceBorders is the number of corner and edge instances of a
// nine-slice. Center tiles come on top of these.
const NineSliceBorders = 8

func (n NineSliceShape) appendInstances(dst []gpu.Instance, pos Vec3, tex Size) ([]gpu.Instance, error) {
	region := n.Region
	if region.Empty() {
		region = Rect{W: tex.W, H: tex.H}
	}
	sl := n.Slices
	if sl.Left < 0 || sl.Right < 0 || sl.Top < 0 || sl.Bottom < 0 {
		return dst, fmt.Errorf("%w: negative nine-slice border %+v", ErrInvalidShape, sl)
	}
	if n.Size.W < sl.Left+sl.Right || n.Size.H < sl.Top+sl.Bottom {
		return dst, fmt.Errorf("%w: nine-slice size %dx%d smaller than borders %+v",
			ErrInvalidShape, n.Size.W, n.Size.H, sl)
	}
	if region.W < sl.Left+sl.Right || region.H < sl.Top+sl.Bottom {
		return dst, fmt.Errorf("%w: nine-slice region %dx%d smaller than borders %+v",
			ErrInvalidShape, region.W, region.H, sl)
	}

	// World space is y-up, so row 0 is the bottom row. Texture rows run
	// top-down, so the bottom world row samples the last texture row.
	worldX := [3]int{0, sl.Left, n.Size.W - sl.Right}
	worldW := [3]int{sl.Left, n.Size.W - sl.Left - sl.Right, sl.Right}
	worldY := [3]int{0, sl.Bottom, n.Size.H - sl.Top}
	worldH := [3]int{sl.Bottom, n.Size.H - sl.Top - sl.Bottom, sl.Top}

	texX := [3]int{region.X, region.X + sl.Left, region.X + region.W - sl.Right}
	texW := [3]int{sl.Left, region.W - sl.Left - sl.Right, sl.Right}
	texY := [3]int{region.Y + region.H - sl.Bottom, region.Y + sl.Top, region.Y}
	texH := [3]int{sl.Bottom, region.H - sl.Top - sl.Bottom, sl.Top}

	color := n.Color.orWhite().Premultiplied()
	quad := func(x, y, w, h int, src Rect) gpu.Instance {
		return gpu.Instance{
			Position: [2]float32{pos.X + float32(x), pos.Y + float32(y)},
			Size:     [2]float32{float32(w), float32(h)},
			UV:       uvRect(src, tex),
			Color:    color,
		}
	}
	for row := range 3 {
		for col := range 3 {
			if row == 1 && col == 1 {
				dst = n.appendCenter(dst, quad, worldX[1], worldY[1], worldW[1], worldH[1],
					Rect{X: texX[1], Y: texY[1], W: texW[1], H: texH[1]})
				continue
			}
			dst = append(dst, quad(worldX[col], worldY[row], worldW[col], worldH[row],
				Rect{X: texX[col], Y: texY[row], W: texW[col], H: texH[row]}))
		}
	}
	return dst, nil
}

// appendCenter tiles src over the w x h center at (x, y), bottom row
// first. The last column keeps the left texels of src and the last (top)
// row keeps its bottom texels, so tiles stay continuous. A center without
// source texels draws nothing.
func (NineSliceShape) appendCenter(dst []gpu.Instance, quad func(x, y, w, h int, src Rect) gpu.Instance,
	x, y, w, h int, src Rect,
) []gpu.Instance {
	if w <= 0 || h <= 0 || src.W <= 0 || src.H <= 0 {
		return dst
	}
	for ty := 0; ty < h; ty += src.H {
		th := min(src.H, h-ty)
		for tx := 0; tx < w; tx += src.W {
			tw := min(src.W, w-tx)
			dst = append(dst, quad(x+tx, y+ty, tw, th,
				Rect{X: src.X, Y: src.Y + src.H - th, W: tw, H: th}))
		}
	}
	return dst
}

// TextShape draws a string with a bitmap font. The material's primary
// texture must be page 0 of the font. It expands to one instance per
// visible glyph.
type TextShape struct {
	Font *font.Font
	Text string
	// MaxWidth wraps lines at break opportunities. 0 disables wrapping.
	MaxWidth float32
	// Scale multiplies the font metrics. 0 means 1.
	Scale float32
	Color Color
}

func (t TextShape) appendInstances(dst []gpu.Instance, pos Vec3, tex Size) ([]gpu.Instance, error) {
	if t.Font == nil {
		return dst, fmt.Errorf("%w: text without font", ErrInvalidShape)
	}
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	res := font.Layout(t.Font, t.Text, font.Options{MaxWidth: t.MaxWidth, Scale: scale})
	if len(res.Missing) > 0 {
		slogger().Debug("glyphs missing from font",
			"face", t.Font.Face, "missing", string(res.Missing))
	}

	color := t.Color.orWhite().Premultiplied()
	for _, p := range res.Glyphs {
		g := p.Glyph
		if g.Page != 0 {
			slogger().Warn("glyph on unsupported font page skipped",
				"face", t.Font.Face, "rune", string(g.ID), "page", g.Page)
			continue
		}
		dst = append(dst, gpu.Instance{
			Position: [2]float32{pos.X + p.X, pos.Y + p.Y},
			Size:     [2]float32{float32(g.Width) * scale, float32(g.Height) * scale},
			UV:       uvRect(Rect{X: g.X, Y: g.Y, W: g.Width, H: g.Height}, tex),
			Color:    color,
		})
	}
	return dst, nil
}

// EmptyTile marks a tile map cell that draws nothing.
const EmptyTile = 0xFFFF

// TileMapShape draws a grid of atlas cells. Tiles holds atlas frame
// indices row by row, starting with the bottom row.
type TileMapShape struct {
	Atlas   FixedAtlas
	Columns int
	Tiles   []uint16
	// Scale is an integer magnification. 0 means 1.
	Scale uint8
}

func (m TileMapShape) appendInstances(dst []gpu.Instance, pos Vec3, tex Size) ([]gpu.Instance, error) {
	if m.Columns <= 0 {
		return dst, fmt.Errorf("%w: tile map with %d columns", ErrInvalidShape, m.Columns)
	}
	scale := max(int(m.Scale), 1)
	cw, ch := m.Atlas.CellSize.W*scale, m.Atlas.CellSize.H*scale
	for i, tile := range m.Tiles {
		if tile == EmptyTile {
			continue
		}
		frame, err := m.Atlas.Frame(int(tile))
		if err != nil {
			return dst, fmt.Errorf("%w: tile %d: %w", ErrInvalidShape, i, err)
		}
		dst = append(dst, gpu.Instance{
			Position: [2]float32{pos.X + float32(i%m.Columns*cw), pos.Y + float32(i/m.Columns*ch)},
			Size:     [2]float32{float32(cw), float32(ch)},
			UV:       uvRect(frame, tex),
			Color:    White.Premultiplied(),
		})
	}
	return dst, nil
}

// uvRect converts a texel rectangle to (u0, v0, u1, v1). An empty texture
// yields the zero rect.
func uvRect(r Rect, tex Size) [4]float32 {
	if tex.W <= 0 || tex.H <= 0 {
		return [4]float32{}
	}
	tw, th := float32(tex.W), float32(tex.H)
	return [4]float32{
		float32(r.X) / tw,
		float32(r.Y) / th,
		float32(r.X+r.W) / tw,
		float32(r.Y+r.H) / th,
	}
}
