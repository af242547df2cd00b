package proxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"design-tutor/api/internal/llm"
	"design-tutor/api/internal/util"
)

// Engine talks to an OpenAI-compatible /v1/chat/completions endpoint (the LLM proxy).
type Engine struct {
	BaseURL string
	APIKey  string
	Model   string
	httpc   *http.Client
}

func New(baseURL, key, model string) *Engine {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	return &Engine{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  key,
		Model:   model,
		// Timeout=0: дедлайн задаёт контекст запроса
		httpc: &http.Client{
			Timeout:   0,
			Transport: tr,
		},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g., for tests or tracing).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) Name() string     { return "proxy" }
func (e *Engine) GetModel() string { return e.Model }

type imageURL struct {
	URL string `json:"url"`
}

type contentItem struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Messages  []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (e *Engine) endpoint() string {
	return e.BaseURL + "/v1/chat/completions"
}

// Generate sends one chat completion with the image inlined as a data URL.
// No retries: a single attempt per call.
func (e *Engine) Generate(ctx context.Context, in llm.GenerateInput) (string, error) {
	mime := util.PickMIME(in.MIME)
	dataURL := util.MakeDataURL(mime, base64.StdEncoding.EncodeToString(in.Image))

	body := chatRequest{
		Model:     e.Model,
		MaxTokens: in.MaxTokens,
		Messages: []message{
			{Role: "system", Content: in.System},
			{
				Role: "user",
				Content: []contentItem{
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
					{Type: "text", Text: in.UserText},
				},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("proxy: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("proxy: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", &llm.StatusError{Code: resp.StatusCode, Body: string(x)}
	}

	var raw chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("proxy: bad JSON: %w", err)
	}
	if len(raw.Choices) == 0 || raw.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("proxy: %w", llm.ErrEmptyResponse)
	}
	return *raw.Choices[0].Message.Content, nil
}
