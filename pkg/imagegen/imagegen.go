// Package imagegen declares the external collaborator seam for image
// generation. imageGeneration nodes are thin executors over whatever
// Generator implementation the host process wires in.
package imagegen

import "context"

// Options configures a single generation call.
type Options struct {
	Width  int
	Height int
	Style  string
}

// Generator turns a prompt into image bytes (PNG).
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) ([]byte, error)
}

// blankPNG1x1 is a minimal valid 1x1 transparent PNG.
var blankPNG1x1 = []byte{
	0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A,
	0, 0, 0, 0x0D, 'I', 'H', 'D', 'R',
	0, 0, 0, 1, 0, 0, 0, 1,
	8, 6, 0, 0, 0, 0x1F, 0x15, 0xC4, 0x89,
	0, 0, 0, 0x0A, 'I', 'D', 'A', 'T',
	0x78, 0x9C, 0x63, 0, 1, 0, 0, 5, 0, 1,
	0x0D, 0x0A, 0x2D, 0xB4,
	0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82,
}

// NoopGenerator returns a fixed 1x1 PNG. It exists so a workflow can be
// exercised end to end (including artifact persistence) without a real
// image backend configured.
type NoopGenerator struct{}

// Generate ignores prompt and options, returning a blank PNG payload.
func (NoopGenerator) Generate(ctx context.Context, prompt string, opts Options) ([]byte, error) {
	out := make([]byte, len(blankPNG1x1))
	copy(out, blankPNG1x1)
	return out, nil
}
