package handle

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"design-tutor/api/internal/store"
)

// History lists recent tutorials. Implemented by store.TutorialRepo.
type History interface {
	Recent(ctx context.Context, limit int) ([]store.HistoryRow, error)
}

type Handle struct {
	svc      Analyzer
	history  History
	log      *zap.Logger
	toolName string
}

func New(svc Analyzer, history History, log *zap.Logger, toolName string) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{
		svc:      svc,
		history:  history,
		log:      log,
		toolName: toolName,
	}
}

func writeDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}
