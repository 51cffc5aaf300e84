// Package tts declares the external collaborator seam for speech synthesis.
// The workflow engine never embeds a concrete TTS backend; textToSpeech
// nodes are thin executors over whatever Synthesizer implementation the
// host process wires in.
package tts

import "context"

// Options configures a single synthesis call.
type Options struct {
	Voice string
	Rate  float64
	Pitch float64
}

// Synthesizer turns text into audio bytes (WAV).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)
}

// NoopSynthesizer returns a fixed, empty WAV-shaped payload. It exists so a
// workflow can be exercised end to end (including artifact persistence)
// without a real speech backend configured.
type NoopSynthesizer struct{}

// silentWAVHeader is a minimal valid (zero-sample) RIFF/WAVE file.
var silentWAVHeader = []byte{
	'R', 'I', 'F', 'F', 36, 0, 0, 0, 'W', 'A', 'V', 'E',
	'f', 'm', 't', ' ', 16, 0, 0, 0, 1, 0, 1, 0,
	0x44, 0xAC, 0, 0, 0x88, 0x58, 1, 0, 2, 0, 16, 0,
	'd', 'a', 't', 'a', 0, 0, 0, 0,
}

// Synthesize ignores text and options, returning a silent WAV payload.
func (NoopSynthesizer) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	out := make([]byte, len(silentWAVHeader))
	copy(out, silentWAVHeader)
	return out, nil
}
