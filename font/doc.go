// Package font loads AngelCode BMFont bitmap fonts and lays out text as
// sprite quads.
//
// A font is parsed from the BMFont text descriptor with [ParseBMFont]; its
// page images are ordinary textures. [Layout] turns a string into glyph
// placements in y-up world units, wrapping at Unicode line break
// opportunities when a maximum width is given.
package font
