package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

//go:embed shaders/mask.wgsl
var maskShaderSource string

//go:embed shaders/quad.wgsl
var quadShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

// shaderSources lists every embedded WGSL module by label.
var shaderSources = []struct {
	label  string
	source *string
}{
	{"sprite", &spriteShaderSource},
	{"mask", &maskShaderSource},
	{"quad", &quadShaderSource},
	{"blit", &blitShaderSource},
}

// ValidateShaders compiles every embedded shader with naga and reports the
// first failure.
func ValidateShaders() error {
	for _, s := range shaderSources {
		if *s.source == "" {
			return fmt.Errorf("%s shader source is empty", s.label)
		}
		spirv, err := naga.Compile(*s.source)
		if err != nil {
			return fmt.Errorf("validate %s shader: %w", s.label, err)
		}
		slogger().Debug("shader validated", "shader", s.label, "spirv_bytes", len(spirv))
	}
	return nil
}
