package llm

import (
	"context"
	"errors"
	"fmt"
)

// GenerateInput is one vision request: a system instruction, an image and a user turn.
type GenerateInput struct {
	System    string
	UserText  string
	Image     []byte
	MIME      string
	MaxTokens int
}

type Engine interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, in GenerateInput) (string, error)
}

type Engines struct {
	Proxy  Engine
	Gemini Engine
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	var eng Engine
	switch llmName {
	case "proxy", "openai", "gpt", "":
		eng = e.Proxy
	case "gemini":
		eng = e.Gemini
	default:
		return nil, errors.New("unknown llm_name; use 'proxy' or 'gemini'")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine %q is not configured", llmName)
	}
	return eng, nil
}

// StatusError is returned when the upstream answered with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Code, e.Body)
}

// ErrEmptyResponse means the upstream reply had no completion text.
var ErrEmptyResponse = errors.New("empty response")
