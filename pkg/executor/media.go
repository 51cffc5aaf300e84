package executor

import (
	"fmt"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/imagegen"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/tts"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// ttsExecutor synthesizes speech and persists it as a WAV artifact.
type ttsExecutor struct {
	synth tts.Synthesizer
}

// NewTextToSpeechExecutor returns the executor for the "textToSpeech" node type.
func NewTextToSpeechExecutor(synth tts.Synthesizer) NodeExecutor {
	if synth == nil {
		synth = tts.NoopSynthesizer{}
	}
	return &ttsExecutor{synth: synth}
}

func (e *ttsExecutor) NodeType() types.NodeType { return types.NodeTypeTextToSpeech }

func (e *ttsExecutor) Validate(ctx ExecutionContext, node types.Node) error { return nil }

func (e *ttsExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	input, bySource := ctx.GetNodeInputs(node.ID)
	text := resolveText(input, bySource, node)
	if text == "" {
		return Output{}, fmt.Errorf("textToSpeech node %s: %w", node.ID, errMissingInput)
	}

	opts := tts.Options{
		Voice: types.GetString(node.Data, "voice", ""),
		Rate:  types.GetFloat(node.Data, "rate", 1.0),
		Pitch: types.GetFloat(node.Data, "pitch", 1.0),
	}
	audio, err := e.synth.Synthesize(ctx.Context(), text, opts)
	if err != nil {
		return Output{}, fmt.Errorf("textToSpeech node %s: %w", node.ID, err)
	}

	store := ctx.Artifacts()
	if store == nil {
		return Output{}, fmt.Errorf("textToSpeech node %s: no artifact store configured", node.ID)
	}
	id, err := store.Save(ctx.Context(), audio, fmt.Sprintf("%s.wav", node.ID), "tts-output")
	if err != nil {
		return Output{}, fmt.Errorf("textToSpeech node %s: persisting artifact: %w", node.ID, err)
	}

	return Output{Value: map[string]interface{}{"artifactId": id, "type": "audio/wav"}}, nil
}

// imageExecutor generates an image and persists it as a PNG artifact.
type imageExecutor struct {
	gen imagegen.Generator
}

// NewImageGenerationExecutor returns the executor for "imageGeneration".
func NewImageGenerationExecutor(gen imagegen.Generator) NodeExecutor {
	if gen == nil {
		gen = imagegen.NoopGenerator{}
	}
	return &imageExecutor{gen: gen}
}

func (e *imageExecutor) NodeType() types.NodeType { return types.NodeTypeImageGeneration }

func (e *imageExecutor) Validate(ctx ExecutionContext, node types.Node) error { return nil }

func (e *imageExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	input, bySource := ctx.GetNodeInputs(node.ID)
	prompt := resolvePrompt(input, bySource, node)
	if prompt == "" {
		return Output{}, fmt.Errorf("imageGeneration node %s: %w", node.ID, errMissingInput)
	}

	opts := imagegen.Options{
		Width:  types.GetInt(node.Data, "width", 512),
		Height: types.GetInt(node.Data, "height", 512),
		Style:  types.GetString(node.Data, "style", ""),
	}
	blob, err := e.gen.Generate(ctx.Context(), prompt, opts)
	if err != nil {
		return Output{}, fmt.Errorf("imageGeneration node %s: %w", node.ID, err)
	}

	store := ctx.Artifacts()
	if store == nil {
		return Output{}, fmt.Errorf("imageGeneration node %s: no artifact store configured", node.ID)
	}
	id, err := store.Save(ctx.Context(), blob, fmt.Sprintf("%s.png", node.ID), "image-output")
	if err != nil {
		return Output{}, fmt.Errorf("imageGeneration node %s: persisting artifact: %w", node.ID, err)
	}

	return Output{Value: map[string]interface{}{"artifactId": id, "type": "image/png"}}, nil
}

var errMissingInput = fmt.Errorf("MissingInput")

func resolveText(input interface{}, bySource map[string]interface{}, node types.Node) string {
	if s, ok := input.(string); ok && s != "" {
		return s
	}
	if m, ok := input.(map[string]interface{}); ok {
		if s, ok := m["text"].(string); ok && s != "" {
			return s
		}
	}
	flat := flattenInputs(bySource)
	if s, ok := flat["text"].(string); ok && s != "" {
		return s
	}
	return types.GetString(node.Data, "text", "")
}

func resolvePrompt(input interface{}, bySource map[string]interface{}, node types.Node) string {
	if s, ok := input.(string); ok && s != "" {
		return s
	}
	if m, ok := input.(map[string]interface{}); ok {
		if s, ok := m["prompt"].(string); ok && s != "" {
			return s
		}
	}
	flat := flattenInputs(bySource)
	if s, ok := flat["prompt"].(string); ok && s != "" {
		return s
	}
	return types.GetString(node.Data, "prompt", "")
}
