package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"design-tutor/api/internal/tutor"
	"design-tutor/api/internal/util"
)

// BotAPI is the part of *tgbotapi.BotAPI the router needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, req tutor.Request) (tutor.Response, error)
}

type Router struct {
	Bot   BotAPI
	Tutor Analyzer
	Log   *zap.Logger

	// Download overrides the file fetcher (tests).
	Download func(url string) ([]byte, error)
}

func (r *Router) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Router) HandleCommand(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(cid, usageText())
	case "lang":
		code := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
		if code == "" {
			r.send(cid, "Current language: "+getLang(cid)+"\nUsage: /lang <"+strings.Join(tutor.Languages(), "|")+">")
			return
		}
		if tutor.ResolveLanguage(code) != code {
			r.send(cid, "Unsupported language. Available: "+strings.Join(tutor.Languages(), ", "))
			return
		}
		setLang(cid, code)
		r.send(cid, "Ok, tutorials will be written in: "+code)
	default:
		r.send(cid, "Unknown command. "+usageText())
	}
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := *upd.Message
	cid := msg.Chat.ID

	switch {
	case msg.IsCommand():
		r.HandleCommand(msg)
	case len(msg.Photo) > 0:
		r.acceptImage(ctx, cid, largestPhoto(msg.Photo).FileID, "")
	case msg.Document != nil:
		if !util.IsImageMIME(msg.Document.MimeType) {
			r.send(cid, "Please upload an image file")
			return
		}
		r.acceptImage(ctx, cid, msg.Document.FileID, msg.Document.MimeType)
	default:
		r.send(cid, usageText())
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.log().Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// SendTutorial sends the metadata header followed by the tutorial in chunks.
func (r *Router) SendTutorial(chatID int64, out tutor.Response) {
	r.send(chatID, formatHeader(out))
	for _, chunk := range splitMessage(out.Tutorial, maxMessageRunes) {
		r.send(chatID, chunk)
	}
}

func (r *Router) SendError(chatID int64, err error) {
	r.send(chatID, "⚠️ "+tutor.DetailOf(err))
}
