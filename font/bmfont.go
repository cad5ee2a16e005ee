package font

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse errors.
var (
	// ErrMalformed is returned for descriptor lines that cannot be parsed.
	ErrMalformed = errors.New("font: malformed descriptor")

	// ErrNoCommon is returned when the descriptor lacks a "common" line.
	ErrNoCommon = errors.New("font: missing common block")
)

// Glyph is one character entry of a BMFont descriptor. Coordinates are in
// texels of the page image, y down.
type Glyph struct {
	ID       rune
	X, Y     int
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	XAdvance int
	Page     int
}

// Font is a parsed BMFont descriptor.
type Font struct {
	Face       string
	Size       int
	LineHeight int
	Base       int
	ScaleW     int
	ScaleH     int
	Pages      []string

	glyphs  map[rune]Glyph
	kerning map[[2]rune]int
}

// Glyph returns the glyph for r.
func (f *Font) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// Kerning returns the advance adjustment between first and second.
func (f *Font) Kerning(first, second rune) int {
	return f.kerning[[2]rune{first, second}]
}

// GlyphCount returns the number of glyphs in the font.
func (f *Font) GlyphCount() int { return len(f.glyphs) }

// ParseBMFont reads a BMFont text descriptor.
func ParseBMFont(r io.Reader) (*Font, error) {
	f := &Font{
		glyphs:  make(map[rune]Glyph),
		kerning: make(map[[2]rune]int),
	}
	sawCommon := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		tag, attrs, err := parseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, err)
		}
		switch tag {
		case "info":
			f.Face = attrs.str("face")
			f.Size = attrs.num("size")
		case "common":
			sawCommon = true
			f.LineHeight = attrs.num("lineHeight")
			f.Base = attrs.num("base")
			f.ScaleW = attrs.num("scaleW")
			f.ScaleH = attrs.num("scaleH")
		case "page":
			id := attrs.num("id")
			if id < 0 || id > 255 {
				return nil, fmt.Errorf("%w: line %d: page id %d", ErrMalformed, lineNo, id)
			}
			for len(f.Pages) <= id {
				f.Pages = append(f.Pages, "")
			}
			f.Pages[id] = attrs.str("file")
		case "char":
			g := Glyph{
				ID:       rune(attrs.num("id")),
				X:        attrs.num("x"),
				Y:        attrs.num("y"),
				Width:    attrs.num("width"),
				Height:   attrs.num("height"),
				XOffset:  attrs.num("xoffset"),
				YOffset:  attrs.num("yoffset"),
				XAdvance: attrs.num("xadvance"),
				Page:     attrs.num("page"),
			}
			f.glyphs[g.ID] = g
		case "kerning":
			pair := [2]rune{rune(attrs.num("first")), rune(attrs.num("second"))}
			f.kerning[pair] = attrs.num("amount")
		}
		if attrs.err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, attrs.err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("font: read descriptor: %w", err)
	}
	if !sawCommon {
		return nil, ErrNoCommon
	}
	return f, nil
}

// attributes holds key=value pairs of one descriptor line and remembers the
// first conversion error.
type attributes struct {
	values map[string]string
	err    error
}

func (a *attributes) str(key string) string { return a.values[key] }

func (a *attributes) num(key string) int {
	v, ok := a.values[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil && a.err == nil {
		a.err = fmt.Errorf("attribute %s: %w", key, err)
	}
	return n
}

// parseLine splits `tag key=value key="quoted value"`.
func parseLine(line string) (string, *attributes, error) {
	line = strings.TrimSpace(line)
	attrs := &attributes{values: make(map[string]string)}
	if line == "" {
		return "", attrs, nil
	}

	tag, rest, _ := strings.Cut(line, " ")
	for rest = strings.TrimLeft(rest, " \t"); rest != ""; rest = strings.TrimLeft(rest, " \t") {
		key, after, ok := strings.Cut(rest, "=")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return "", nil, fmt.Errorf("expected key=value near %q", rest)
		}
		var value string
		if strings.HasPrefix(after, `"`) {
			end := strings.IndexByte(after[1:], '"')
			if end < 0 {
				return "", nil, fmt.Errorf("unterminated quote for %s", key)
			}
			value = after[1 : end+1]
			rest = after[end+2:]
		} else {
			value, rest, _ = strings.Cut(after, " ")
		}
		attrs.values[key] = value
	}
	return tag, attrs, nil
}
