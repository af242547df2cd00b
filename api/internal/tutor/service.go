package tutor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"design-tutor/api/internal/llm"
	"design-tutor/api/internal/metrics"
	"design-tutor/api/internal/util"
)

const (
	DefaultMaxImageBytes = 10 * 1024 * 1024
	DefaultTimeout       = 120 * time.Second
	DefaultMaxTokens     = 4096
)

// Recorder persists successful analyses. Implemented by store.TutorialRepo.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

type Options struct {
	ToolName      string
	MaxImageBytes int64
	Timeout       time.Duration
	MaxTokens     int
	Recorder      Recorder
}

type Service struct {
	engine   llm.Engine
	log      *zap.Logger
	opts     Options
	recorder Recorder
}

func NewService(engine llm.Engine, log *zap.Logger, opts Options) *Service {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.ToolName == "" {
		opts.ToolName = "design-tutor"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: engine, log: log, opts: opts, recorder: opts.Recorder}
}

// MaxImageBytes is the largest accepted payload.
func (s *Service) MaxImageBytes() int64 { return s.opts.MaxImageBytes }

// Validate checks the declared media type and the payload size.
func (s *Service) Validate(req Request) error {
	if !util.IsImageMIME(req.MIME) {
		return &Error{Kind: KindInvalidInput, Detail: "Please upload an image file"}
	}
	if int64(len(req.Image)) > s.opts.MaxImageBytes {
		return &Error{
			Kind:   KindPayloadTooLarge,
			Detail: fmt.Sprintf("Image too large. Max %dMB.", s.opts.MaxImageBytes/(1024*1024)),
		}
	}
	return nil
}

// Analyze validates the upload, asks the engine for a tutorial and derives metadata from it.
// One upstream attempt per call.
func (s *Service) Analyze(ctx context.Context, req Request) (Response, error) {
	resp, err := s.analyze(ctx, req)
	if err != nil {
		metrics.TutorialFailures.WithLabelValues(s.opts.ToolName, string(KindOf(err))).Inc()
	}
	return resp, err
}

func (s *Service) analyze(ctx context.Context, req Request) (Response, error) {
	if err := s.Validate(req); err != nil {
		return Response{}, err
	}

	lang := ResolveLanguage(req.Language)
	in := llm.GenerateInput{
		System:    SystemPrompt(lang),
		UserText:  userPrompt,
		Image:     req.Image,
		MIME:      util.PickMIME(req.MIME),
		MaxTokens: s.opts.MaxTokens,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := s.engine.Generate(callCtx, in)
	metrics.TutorialDuration.WithLabelValues(s.opts.ToolName).Observe(time.Since(start).Seconds())
	if err != nil {
		cerr := classifyUpstream(callCtx, err)
		s.log.Warn("tutorial generation failed",
			zap.String("engine", s.engine.Name()),
			zap.String("language", lang),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(cerr))
		return Response{}, cerr
	}

	out := Response{
		Tutorial:            text,
		ComponentsDetected:  ExtractComponents(text),
		EstimatedDifficulty: EstimateDifficulty(text),
		EstimatedTime:       EstimateTime(text),
	}
	metrics.TutorialGenerated.WithLabelValues(s.opts.ToolName, lang).Inc()
	s.log.Info("tutorial generated",
		zap.String("engine", s.engine.Name()),
		zap.String("language", lang),
		zap.Int("image_bytes", len(req.Image)),
		zap.String("difficulty", out.EstimatedDifficulty),
		zap.Duration("elapsed", time.Since(start)))

	s.record(ctx, lang, req.Image, out)
	return out, nil
}

func (s *Service) record(ctx context.Context, lang string, image []byte, out Response) {
	if s.recorder == nil {
		return
	}
	sum := sha256.Sum256(image)
	rec := Record{
		Language:    lang,
		Engine:      s.engine.Name(),
		Model:       s.engine.GetModel(),
		ImageSHA256: hex.EncodeToString(sum[:]),
		Response:    out,
	}
	// история не должна ломать ответ клиенту
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.recorder.Record(rctx, rec); err != nil {
		s.log.Error("record tutorial history", zap.Error(err))
	}
}

func classifyUpstream(ctx context.Context, err error) error {
	if isTimeout(ctx, err) {
		return &Error{Kind: KindUpstreamTimeout, Detail: "Request timed out. Please try again.", Err: err}
	}
	var se *llm.StatusError
	if errors.As(err, &se) {
		return &Error{Kind: KindUpstreamError, Detail: "LLM service error: " + se.Body, Err: err}
	}
	return &Error{Kind: KindInternal, Detail: err.Error(), Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if ctx.Err() != nil {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
