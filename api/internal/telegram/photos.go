package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"design-tutor/api/internal/tutor"
	"design-tutor/api/internal/util"
)

// acceptImage downloads the file behind fileID and runs the tutorial analysis on it.
// An empty mime means "sniff from content" (Telegram photos are always re-encoded JPEG).
func (r *Router) acceptImage(ctx context.Context, chatID int64, fileID, mime string) {
	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	img, err := r.download(url)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	if mime == "" {
		mime = util.SniffMimeHTTP(img)
	}

	r.send(chatID, "Got it, generating your tutorial… this can take a minute or two.")

	lang := getLang(chatID)
	out, err := r.Tutor.Analyze(ctx, tutor.Request{Image: img, MIME: mime, Language: lang})
	if err != nil {
		r.log().Warn("telegram analyze failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.SendError(chatID, err)
		return
	}
	r.SendTutorial(chatID, out)
}

func (r *Router) download(url string) ([]byte, error) {
	if r.Download != nil {
		return r.Download(url)
	}
	return download(url)
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// largestPhoto picks the highest resolution variant Telegram sent.
func largestPhoto(photos []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	return photos[len(photos)-1]
}
