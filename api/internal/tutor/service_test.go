package tutor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"design-tutor/api/internal/llm"
)

type fakeEngine struct {
	text  string
	err   error
	delay time.Duration
	calls int
	got   llm.GenerateInput
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake-model" }

func (f *fakeEngine) Generate(ctx context.Context, in llm.GenerateInput) (string, error) {
	f.calls++
	f.got = in
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type fakeRecorder struct {
	recs []Record
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, rec Record) error {
	f.recs = append(f.recs, rec)
	return f.err
}

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestAnalyzeSuccess(t *testing.T) {
	eng := &fakeEngine{text: sampleTutorial}
	rec := &fakeRecorder{}
	svc := NewService(eng, zap.NewNop(), Options{Recorder: rec})

	out, err := svc.Analyze(context.Background(), Request{Image: pngBytes, MIME: "image/png", Language: "ja"})
	require.NoError(t, err)

	assert.Equal(t, sampleTutorial, out.Tutorial)
	assert.Equal(t, DifficultyBeginner, out.EstimatedDifficulty)
	assert.Equal(t, TimeShort, out.EstimatedTime)
	assert.Contains(t, out.ComponentsDetected, "Header Component")

	assert.Equal(t, 1, eng.calls)
	assert.Equal(t, SystemPrompt("ja"), eng.got.System)
	assert.Equal(t, userPrompt, eng.got.UserText)
	assert.Equal(t, "image/png", eng.got.MIME)
	assert.Equal(t, DefaultMaxTokens, eng.got.MaxTokens)
	assert.True(t, bytes.Equal(pngBytes, eng.got.Image))

	require.Len(t, rec.recs, 1)
	assert.Equal(t, "ja", rec.recs[0].Language)
	assert.Equal(t, "fake", rec.recs[0].Engine)
	assert.Equal(t, "fake-model", rec.recs[0].Model)
	assert.Len(t, rec.recs[0].ImageSHA256, 64)
}

func TestAnalyzeUnknownLanguageUsesEnglish(t *testing.T) {
	eng := &fakeEngine{text: "ok"}
	svc := NewService(eng, nil, Options{})

	_, err := svc.Analyze(context.Background(), Request{Image: pngBytes, MIME: "image/jpeg", Language: "klingon"})
	require.NoError(t, err)
	assert.Equal(t, SystemPrompt("en"), eng.got.System)
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	eng := &fakeEngine{text: "unused"}
	svc := NewService(eng, nil, Options{})

	for _, mime := range []string{"", "text/plain", "application/octet-stream"} {
		_, err := svc.Analyze(context.Background(), Request{Image: []byte("not an image"), MIME: mime})
		require.Error(t, err)
		assert.Equal(t, KindInvalidInput, KindOf(err))
		assert.Contains(t, DetailOf(err), "image")
		assert.Equal(t, http.StatusBadRequest, KindOf(err).HTTPStatus())
	}
	assert.Zero(t, eng.calls, "no upstream call for invalid input")
}

func TestAnalyzeRejectsOversizedImage(t *testing.T) {
	eng := &fakeEngine{text: "unused"}
	svc := NewService(eng, nil, Options{})

	exact := make([]byte, DefaultMaxImageBytes)
	_, err := svc.Analyze(context.Background(), Request{Image: exact, MIME: "image/png"})
	require.NoError(t, err, "exactly 10MiB is accepted")

	over := make([]byte, DefaultMaxImageBytes+1)
	_, err = svc.Analyze(context.Background(), Request{Image: over, MIME: "image/png"})
	require.Error(t, err)
	assert.Equal(t, KindPayloadTooLarge, KindOf(err))
	assert.Equal(t, "Image too large. Max 10MB.", DetailOf(err))
	assert.Equal(t, http.StatusBadRequest, KindOf(err).HTTPStatus())
	assert.Equal(t, 1, eng.calls)
}

func TestAnalyzeUpstreamStatusError(t *testing.T) {
	eng := &fakeEngine{err: &llm.StatusError{Code: 502, Body: "proxy exploded"}}
	svc := NewService(eng, nil, Options{})

	_, err := svc.Analyze(context.Background(), Request{Image: pngBytes, MIME: "image/png"})
	require.Error(t, err)
	assert.Equal(t, KindUpstreamError, KindOf(err))
	assert.Contains(t, DetailOf(err), "proxy exploded")
	assert.Equal(t, http.StatusInternalServerError, KindOf(err).HTTPStatus())
}

func TestAnalyzeUpstreamTimeout(t *testing.T) {
	eng := &fakeEngine{text: "late", delay: time.Second}
	svc := NewService(eng, nil, Options{Timeout: 20 * time.Millisecond})

	_, err := svc.Analyze(context.Background(), Request{Image: pngBytes, MIME: "image/png"})
	require.Error(t, err)
	assert.Equal(t, KindUpstreamTimeout, KindOf(err))
	assert.Equal(t, http.StatusGatewayTimeout, KindOf(err).HTTPStatus())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalyzeCallerCancelled(t *testing.T) {
	eng := &fakeEngine{text: "late", delay: time.Second}
	svc := NewService(eng, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Analyze(ctx, Request{Image: pngBytes, MIME: "image/png"})
	assert.Equal(t, KindUpstreamTimeout, KindOf(err))
}

func TestAnalyzeInternalError(t *testing.T) {
	eng := &fakeEngine{err: errors.New("proxy: bad JSON: invalid character")}
	svc := NewService(eng, nil, Options{})

	_, err := svc.Analyze(context.Background(), Request{Image: pngBytes, MIME: "image/png"})
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "proxy: bad JSON: invalid character", DetailOf(err))
}

func TestAnalyzeRecorderFailureIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	svc := NewService(&fakeEngine{text: "ok"}, nil, Options{Recorder: rec})

	_, err := svc.Analyze(context.Background(), Request{Image: pngBytes, MIME: "image/png"})
	require.NoError(t, err)
	assert.Len(t, rec.recs, 1)
}

func TestKindOfUnclassified(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "boom", DetailOf(err))
}
