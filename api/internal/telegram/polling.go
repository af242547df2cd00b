package telegram

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	pollBaseDelay = 1 * time.Second
	pollMaxDelay  = 15 * time.Second
)

// pollBackoff picks the pause before the next getUpdates after failures in a row.
// Telegram's own retry_after (429 flood control) wins; otherwise the delay doubles up to pollMaxDelay.
func pollBackoff(err error, failures int) time.Duration {
	if ra := retryAfter(err); ra > 0 {
		return min(ra, pollMaxDelay)
	}
	d := pollBaseDelay
	for i := 1; i < failures && d < pollMaxDelay; i++ {
		d *= 2
	}
	return min(d, pollMaxDelay)
}

func retryAfter(err error) time.Duration {
	var pe *tgbotapi.Error
	if errors.As(err, &pe) && pe.RetryAfter > 0 {
		return time.Duration(pe.RetryAfter) * time.Second
	}
	return 0
}

// Updater is the part of *tgbotapi.BotAPI used for long polling.
type Updater interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// RunPolling long-polls until ctx is cancelled, backing off on errors.
func RunPolling(ctx context.Context, bot Updater, log *zap.Logger, handle func(tgbotapi.Update)) {
	offset := 0
	failures := 0

	for {
		select {
		case <-ctx.Done():
			log.Info("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling, сек

		updates, err := bot.GetUpdates(u)
		if err != nil {
			failures++
			d := pollBackoff(err, failures)
			log.Warn("polling error", zap.Error(err), zap.Int("failures", failures), zap.Duration("retry_in", d))
			if !sleepCtx(ctx, d) {
				return
			}
			continue
		}
		failures = 0

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			if !sleepCtx(ctx, 200*time.Millisecond) {
				return
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ShortHash derives a stable webhook path segment from the bot token (FNV-1a, 16 hex chars).
func ShortHash(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}
