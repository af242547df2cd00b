package handle

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"design-tutor/api/internal/tutor"
)

// Analyzer is the tutorial core as seen by the HTTP layer.
type Analyzer interface {
	Analyze(ctx context.Context, req tutor.Request) (tutor.Response, error)
	MaxImageBytes() int64
}

// Analyze handles POST /api/v1/tutor/analyze (multipart: image, language).
func (h *Handle) Analyze(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeDetail(c, http.StatusUnprocessableEntity, "field required: image")
		return
	}

	language := strings.TrimSpace(c.PostForm("language"))
	if language == "" {
		language = strings.TrimSpace(c.Query("language"))
	}
	if language == "" {
		language = tutor.DefaultLanguage
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error("open uploaded file", zap.Error(err))
		writeDetail(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	// читаем на байт больше лимита: этого достаточно, чтобы отличить превышение
	data, err := io.ReadAll(io.LimitReader(f, h.svc.MaxImageBytes()+1))
	if err != nil {
		h.log.Error("read uploaded file", zap.Error(err))
		writeDetail(c, http.StatusInternalServerError, err.Error())
		return
	}

	out, err := h.svc.Analyze(c.Request.Context(), tutor.Request{
		Image:    data,
		MIME:     fh.Header.Get("Content-Type"),
		Language: language,
	})
	if err != nil {
		kind := tutor.KindOf(err)
		if kind.HTTPStatus() >= http.StatusInternalServerError {
			h.log.Error("analyze failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		writeDetail(c, kind.HTTPStatus(), tutor.DetailOf(err))
		return
	}

	c.JSON(http.StatusOK, out)
}
