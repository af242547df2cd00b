package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"design-tutor/api/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot front end",
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is empty")
	}
	bot, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
	if err != nil {
		return err
	}
	bot.Debug = false

	r := &telegram.Router{Bot: bot, Tutor: a.svc, Log: a.log}
	handle := func(upd tgbotapi.Update) {
		// каждый апдейт в своей горутине: генерация идёт до двух минут
		go r.HandleUpdate(ctx, upd)
	}

	// ListenForWebhook регистрирует обработчик на DefaultServeMux
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: a.cfg.Addr(), ReadHeaderTimeout: 10 * time.Second}

	if webhookURL := strings.TrimSpace(a.cfg.WebhookURL); webhookURL != "" {
		path := "/webhook/" + telegram.ShortHash(bot.Token)
		wh, err := tgbotapi.NewWebhook(strings.TrimRight(webhookURL, "/") + path)
		if err != nil {
			return err
		}
		wh.DropPendingUpdates = true
		if _, err := bot.Request(wh); err != nil {
			return err
		}
		updates := bot.ListenForWebhook(path)
		go func() {
			for upd := range updates {
				handle(upd)
			}
		}()
		a.log.Info("webhook mode", zap.String("addr", a.cfg.Addr()), zap.String("path", path))
	} else {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			a.log.Warn("delete webhook", zap.Error(err))
		}
		go telegram.RunPolling(ctx, bot, a.log, handle)
		a.log.Info("polling mode", zap.String("bot", bot.Self.UserName))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
