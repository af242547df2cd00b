package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"

	"design-tutor/api/internal/llm"
	"design-tutor/api/internal/util"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Generate runs one GenerateContent call with the system instruction, the image blob and the user text.
func (e *Engine) Generate(ctx context.Context, in llm.GenerateInput) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	if in.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(in.MaxTokens))
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(in.System)},
	}

	parts := []genai.Part{
		&genai.Blob{MIMEType: util.PickMIME(in.MIME), Data: in.Image},
		genai.Text(in.UserText),
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}
	return txt, nil
}

// classify turns API errors that carry an HTTP status into llm.StatusError.
func classify(err error) error {
	var ae *apierror.APIError
	if errors.As(err, &ae) && ae.HTTPCode() > 0 {
		return &llm.StatusError{Code: ae.HTTPCode(), Body: ae.Error()}
	}
	return err
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
