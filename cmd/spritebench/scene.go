package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/asset"
)

// Scene is a benchmark scene loaded from TOML.
type Scene struct {
	Seed          uint64         `toml:"seed"`
	Frames        int            `toml:"frames"`
	VirtualWidth  int            `toml:"virtual_width"`
	VirtualHeight int            `toml:"virtual_height"`
	MaxInstances  int            `toml:"max_instances"`
	VirtualTarget bool           `toml:"virtual_target"`
	Textures      []TextureSpec  `toml:"texture"`
	Materials     []MaterialSpec `toml:"material"`
	Groups        []GroupSpec    `toml:"group"`
}

// TextureSpec describes a generated solid texture.
type TextureSpec struct {
	Name   string `toml:"name"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Color  uint32 `toml:"color"` // 0xRRGGBBAA
}

// MaterialSpec describes a material by texture names.
type MaterialSpec struct {
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
	Texture string `toml:"texture"`
	Mask    string `toml:"mask"`
}

// GroupSpec queues Count items of one shape every frame at random
// positions inside the virtual screen.
type GroupSpec struct {
	Material string     `toml:"material"`
	Shape    string     `toml:"shape"`
	Count    int        `toml:"count"`
	Z        [2]float32 `toml:"z"`
	Region   [4]int     `toml:"region"`
	Size     [2]int     `toml:"size"`
	Slices   [4]int     `toml:"slices"` // left, top, right, bottom
}

var errScene = errors.New("spritebench: invalid scene")

var materialKinds = map[string]sprite.MaterialKind{
	"sprite":     sprite.KindSprite,
	"alpha_mask": sprite.KindAlphaMask,
	"quad":       sprite.KindQuad,
	"light_add":  sprite.KindLightAdd,
}

// ParseScene decodes a TOML scene. Unknown keys are an error.
func ParseScene(data string) (*Scene, error) {
	var s Scene
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("spritebench: decode scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", errScene, strings.Join(keys, ", "))
	}
	if s.Frames <= 0 {
		s.Frames = 1
	}
	for i, g := range s.Groups {
		if g.Count < 0 {
			return nil, fmt.Errorf("%w: group %d has negative count", errScene, i)
		}
		switch g.Shape {
		case "", "sprite", "quad", "nine_slice":
		default:
			return nil, fmt.Errorf("%w: group %d has unknown shape %q", errScene, i, g.Shape)
		}
	}
	return &s, nil
}

// Options returns the renderer options the scene asks for.
func (s *Scene) Options() []sprite.RendererOption {
	var opts []sprite.RendererOption
	if s.VirtualWidth > 0 && s.VirtualHeight > 0 {
		opts = append(opts, sprite.WithVirtualSize(s.VirtualWidth, s.VirtualHeight))
	}
	if s.MaxInstances > 0 {
		opts = append(opts, sprite.WithMaxInstances(s.MaxInstances))
	}
	return opts
}

// bench is a scene bound to a renderer.
type bench struct {
	scene     *Scene
	materials []asset.Handle[sprite.Material]
	rng       *rand.Rand
}

// build uploads the scene textures and registers its materials.
func (s *Scene) build(r *sprite.Renderer) (*bench, error) {
	for _, ts := range s.Textures {
		img := image.NewRGBA(image.Rect(0, 0, ts.Width, ts.Height))
		c := sprite.ColorFromHex(ts.Color)
		fill := color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
		draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		if _, err := r.CreateTexture(ts.Name, img); err != nil {
			return nil, fmt.Errorf("texture %q: %w", ts.Name, err)
		}
	}

	byName := make(map[string]asset.Handle[sprite.Material], len(s.Materials))
	for _, ms := range s.Materials {
		kind, ok := materialKinds[ms.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: material %q has unknown kind %q", errScene, ms.Name, ms.Kind)
		}
		m := sprite.Material{Kind: kind}
		m.Primary, _ = r.TextureByName(ms.Texture)
		m.Mask, _ = r.TextureByName(ms.Mask)
		h, err := r.CreateMaterial(ms.Name, m)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", ms.Name, err)
		}
		byName[ms.Name] = h
	}

	b := &bench{scene: s, rng: rand.New(rand.NewPCG(s.Seed, s.Seed^0x5eed))}
	for i, g := range s.Groups {
		h, ok := byName[g.Material]
		if !ok {
			return nil, fmt.Errorf("%w: group %d uses unknown material %q", errScene, i, g.Material)
		}
		b.materials = append(b.materials, h)
	}
	return b, nil
}

// queue adds one frame worth of items.
func (b *bench) queue(r *sprite.Renderer) {
	size := r.VirtualSize()
	for i, g := range b.scene.Groups {
		mat := b.materials[i]
		for range g.Count {
			pos := sprite.Vec3{
				X: b.rng.Float32() * float32(size.W),
				Y: b.rng.Float32() * float32(size.H),
				Z: g.Z[0] + b.rng.Float32()*(g.Z[1]-g.Z[0]),
			}
			r.Add(sprite.Item{Position: pos, Material: mat, Shape: g.shape()})
		}
	}
}

func (g GroupSpec) shape() sprite.Shape {
	switch g.Shape {
	case "quad":
		return sprite.QuadShape{
			Size:  sprite.Vec2{X: float32(g.Size[0]), Y: float32(g.Size[1])},
			Color: sprite.Color{A: 0.5},
		}
	case "nine_slice":
		return sprite.NineSliceShape{
			Slices: sprite.Slices{Left: g.Slices[0], Top: g.Slices[1], Right: g.Slices[2], Bottom: g.Slices[3]},
			Size:   sprite.Size{W: g.Size[0], H: g.Size[1]},
		}
	default:
		return sprite.SpriteShape{
			Region: sprite.Rect{X: g.Region[0], Y: g.Region[1], W: g.Region[2], H: g.Region[3]},
		}
	}
}

func to8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5) //nolint:gosec // clamped
}
