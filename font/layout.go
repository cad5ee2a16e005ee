package font

import (
	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/unicode/norm"
)

// Placed is a glyph positioned in y-up world units. X, Y is the lower-left
// corner of the glyph quad.
type Placed struct {
	Glyph Glyph
	X, Y  float32
}

// Options controls Layout.
type Options struct {
	// MaxWidth wraps lines at break opportunities once they would exceed
	// this width. 0 disables wrapping; mandatory breaks always apply.
	MaxWidth float32
	// Scale multiplies all font metrics. 0 means 1.
	Scale float32
}

// Result is the outcome of Layout.
type Result struct {
	Glyphs []Placed
	// Missing lists runes that have no glyph in the font, in order.
	Missing []rune
	// Lines is the number of laid out lines.
	Lines int
	// Width is the widest line advance.
	Width float32
}

// Layout places the glyphs of text starting at the baseline-relative origin
// (0, 0) and moving down one line height per line.
//
// Text is normalized to NFC first so that composed characters find their
// precomposed glyphs.
func Layout(f *Font, text string, opts Options) Result {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	text = norm.NFC.String(text)

	var (
		res   Result
		x, y  float32
		prev  rune = -1
		lineH      = float32(f.LineHeight) * scale
	)
	res.Lines = 1
	newLine := func() {
		res.Width = max(res.Width, x)
		x = 0
		y -= lineH
		prev = -1
		res.Lines++
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return Result{}
	}
	var seg segmenter.Segmenter
	seg.Init(runes)
	it := seg.LineIterator()
	for it.Next() {
		line := it.Line()
		if opts.MaxWidth > 0 && x > 0 && x+f.measure(line.Text, prev)*scale > opts.MaxWidth {
			newLine()
		}
		for _, r := range line.Text {
			if isBreak(r) {
				continue
			}
			g, ok := f.glyphs[r]
			if !ok {
				res.Missing = append(res.Missing, r)
				continue
			}
			if prev >= 0 {
				x += float32(f.Kerning(prev, r)) * scale
			}
			if g.Width > 0 && g.Height > 0 {
				res.Glyphs = append(res.Glyphs, Placed{
					Glyph: g,
					X:     x + float32(g.XOffset)*scale,
					Y:     y + float32(f.Base+1-g.Height-g.YOffset)*scale,
				})
			}
			x += float32(g.XAdvance) * scale
			prev = r
		}
		// The end of text is always a mandatory break; only inner ones
		// start a new line.
		if line.IsMandatoryBreak && line.Offset+len(line.Text) < len(runes) {
			newLine()
		}
	}
	res.Width = max(res.Width, x)
	return res
}

// measure returns the unscaled advance of a segment, ignoring trailing
// whitespace so that a space never forces a wrap on its own.
func (f *Font) measure(segment []rune, prev rune) float32 {
	end := len(segment)
	for end > 0 && (segment[end-1] == ' ' || isBreak(segment[end-1])) {
		end--
	}
	var w int
	for _, r := range segment[:end] {
		g, ok := f.glyphs[r]
		if !ok {
			continue
		}
		if prev >= 0 {
			w += f.Kerning(prev, r)
		}
		w += g.XAdvance
		prev = r
	}
	return float32(w)
}

func isBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
