// Package generate sends a rendered prompt to a hosted text-generation model
// and returns the raw reply. Backends live in subpackages; New picks one from
// configuration and wraps its failures in *GenerationError.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vbonduro/foodlens/internal/config"
	"github.com/vbonduro/foodlens/internal/generate/claude"
	"github.com/vbonduro/foodlens/internal/generate/gemini"
	"github.com/vbonduro/foodlens/internal/generate/ollama"
	"github.com/vbonduro/foodlens/internal/generate/openai"
	"github.com/vbonduro/foodlens/internal/generate/openrouter"
)

var ErrUnknownBackend = errors.New("unknown generation backend")

// Generator makes exactly one remote call per Generate. There is no retry,
// no caching and no timeout beyond ctx.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports a transport or service failure from a backend.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Named tags every error from g with the backend name.
func Named(backend string, g Generator) Generator {
	return &named{backend: backend, g: g}
}

type named struct {
	backend string
	g       Generator
}

func (n *named) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := n.g.Generate(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Backend: n.backend, Err: err}
	}
	return text, nil
}

// Close forwards to the backend when it holds a client.
func (n *named) Close() error {
	if c, ok := n.g.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Close releases any client held by a generator returned from New.
func Close(g Generator) error {
	if c, ok := g.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// New builds the backend selected by cfg.GenerationBackend.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	var (
		g   Generator
		err error
	)
	switch cfg.GenerationBackend {
	case "gemini":
		g, err = gemini.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "claude":
		g, err = claude.NewClaudeGenerator(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "openai":
		g, err = openai.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "openrouter":
		g, err = openrouter.NewOpenRouterGenerator(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	case "ollama":
		g = ollama.NewOllamaGenerator(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.GenerationBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", cfg.GenerationBackend, err)
	}
	return Named(cfg.GenerationBackend, g), nil
}
