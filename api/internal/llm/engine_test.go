package llm

import (
	"context"
	"testing"
)

type stubEngine struct{ name string }

func (s stubEngine) Name() string     { return s.name }
func (s stubEngine) GetModel() string { return "m" }
func (s stubEngine) Generate(context.Context, GenerateInput) (string, error) {
	return "", nil
}

func TestGetEngine(t *testing.T) {
	engs := &Engines{Proxy: stubEngine{"proxy"}, Gemini: stubEngine{"gemini"}}

	for _, name := range []string{"proxy", "openai", "gpt", ""} {
		e, err := engs.GetEngine(name)
		if err != nil || e.Name() != "proxy" {
			t.Fatalf("GetEngine(%q) = %v, %v; want proxy", name, e, err)
		}
	}
	if e, err := engs.GetEngine("gemini"); err != nil || e.Name() != "gemini" {
		t.Fatalf("expected gemini engine, got %v, %v", e, err)
	}
	if _, err := engs.GetEngine("yandex"); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
}

func TestGetEngineNotConfigured(t *testing.T) {
	engs := &Engines{Proxy: stubEngine{"proxy"}}
	if _, err := engs.GetEngine("gemini"); err == nil {
		t.Fatalf("expected error for missing gemini engine")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Code: 503, Body: "overloaded"}
	if got := err.Error(); got != "upstream 503: overloaded" {
		t.Fatalf("unexpected message %q", got)
	}
}
