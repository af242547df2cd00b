package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"design-tutor/api/internal/tutor"
)

type fakeBot struct {
	sent []string
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	return "https://files.test/" + fileID, nil
}

type fakeTutor struct {
	req tutor.Request
	out tutor.Response
	err error
}

func (f *fakeTutor) Analyze(_ context.Context, req tutor.Request) (tutor.Response, error) {
	f.req = req
	return f.out, f.err
}

var jpeg = []byte{0xFF, 0xD8, 0xFF, 0xE0}

func newTestRouter(tut *fakeTutor) (*Router, *fakeBot) {
	bot := &fakeBot{}
	return &Router{
		Bot:   bot,
		Tutor: tut,
		Log:   zap.NewNop(),
		Download: func(url string) ([]byte, error) {
			if strings.HasSuffix(url, "/broken") {
				return nil, errors.New("status 404: not found")
			}
			return jpeg, nil
		},
	}, bot
}

func command(chatID int64, text string) tgbotapi.Update {
	cmd := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func TestPhotoProducesTutorial(t *testing.T) {
	tut := &fakeTutor{out: tutor.Response{
		Tutorial:            "# Step 1\nbuild it",
		ComponentsDetected:  []string{"Header Component", "Card Component"},
		EstimatedDifficulty: tutor.DifficultyBeginner,
		EstimatedTime:       tutor.TimeShort,
	}}
	r, bot := newTestRouter(tut)

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 101},
		Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}})

	assert.Equal(t, "image/jpeg", tut.req.MIME)
	assert.Equal(t, tutor.DefaultLanguage, tut.req.Language)
	assert.Equal(t, jpeg, tut.req.Image)
	require.Len(t, bot.sent, 3)
	assert.Contains(t, bot.sent[1], "Difficulty: Beginner")
	assert.Contains(t, bot.sent[1], "Header Component, Card Component")
	assert.Equal(t, "# Step 1\nbuild it", bot.sent[2])
}

func TestLangCommandAppliesToChat(t *testing.T) {
	tut := &fakeTutor{out: tutor.Response{Tutorial: "x"}}
	r, bot := newTestRouter(tut)

	r.HandleUpdate(context.Background(), command(202, "/lang fr"))
	assert.Contains(t, bot.sent[len(bot.sent)-1], "fr")

	r.HandleUpdate(context.Background(), command(202, "/lang xx"))
	assert.Contains(t, bot.sent[len(bot.sent)-1], "Unsupported language")

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 202},
		Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/webp"},
	}})
	assert.Equal(t, "fr", tut.req.Language)
	assert.Equal(t, "image/webp", tut.req.MIME)
}

func TestNonImageDocumentRejected(t *testing.T) {
	tut := &fakeTutor{}
	r, bot := newTestRouter(tut)

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 303},
		Document: &tgbotapi.Document{FileID: "doc", MimeType: "application/pdf"},
	}})
	require.Len(t, bot.sent, 1)
	assert.Equal(t, "Please upload an image file", bot.sent[0])
	assert.Nil(t, tut.req.Image)
}

func TestAnalyzeErrorIsReported(t *testing.T) {
	tut := &fakeTutor{err: &tutor.Error{Kind: tutor.KindUpstreamTimeout, Detail: "Request timed out. Please try again."}}
	r, bot := newTestRouter(tut)

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 404},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	}})
	assert.Equal(t, "⚠️ Request timed out. Please try again.", bot.sent[len(bot.sent)-1])
}

func TestDownloadErrorIsReported(t *testing.T) {
	r, bot := newTestRouter(&fakeTutor{})

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 505},
		Photo: []tgbotapi.PhotoSize{{FileID: "broken"}},
	}})
	require.Len(t, bot.sent, 1)
	assert.Contains(t, bot.sent[0], "404")
}

func TestStartAndPlainText(t *testing.T) {
	r, bot := newTestRouter(&fakeTutor{})

	r.HandleUpdate(context.Background(), command(606, "/start"))
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 606},
		Text: "hello",
	}})
	require.Len(t, bot.sent, 2)
	assert.Contains(t, bot.sent[0], "/lang")
	assert.Equal(t, bot.sent[0], bot.sent[1])
}

func TestSplitMessage(t *testing.T) {
	assert.Empty(t, splitMessage("   ", 10))
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	text := "aaaa\nbbbb\ncccc"
	assert.Equal(t, []string{"aaaa\n", "bbbb\n", "cccc"}, splitMessage(text, 7))

	long := strings.Repeat("ж", 25)
	chunks := splitMessage(long, 10)
	require.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestPollBackoff(t *testing.T) {
	plain := errors.New("bad gateway")
	assert.Equal(t, 1*time.Second, pollBackoff(plain, 1))
	assert.Equal(t, 2*time.Second, pollBackoff(plain, 2))
	assert.Equal(t, 8*time.Second, pollBackoff(plain, 4))
	assert.Equal(t, pollMaxDelay, pollBackoff(plain, 10))

	flood := &tgbotapi.Error{Code: 429, Message: "Too Many Requests: retry after 7",
		ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}}
	assert.Equal(t, 7*time.Second, pollBackoff(flood, 1))
	assert.Equal(t, 7*time.Second, pollBackoff(fmt.Errorf("getUpdates: %w", flood), 3))

	long := &tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 300}}
	assert.Equal(t, pollMaxDelay, pollBackoff(long, 1))
}

type fakeUpdater struct {
	calls int
	done  context.CancelFunc
}

func (f *fakeUpdater) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.calls++
	if f.calls == 1 {
		return []tgbotapi.Update{{UpdateID: 10}, {UpdateID: 11}}, nil
	}
	if cfg.Offset != 12 {
		return nil, fmt.Errorf("unexpected offset %d", cfg.Offset)
	}
	f.done()
	return nil, nil
}

func TestRunPollingAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	up := &fakeUpdater{done: cancel}

	var seen []int
	RunPolling(ctx, up, zap.NewNop(), func(u tgbotapi.Update) { seen = append(seen, u.UpdateID) })

	assert.Equal(t, []int{10, 11}, seen)
	assert.Equal(t, 2, up.calls)
}

func TestShortHashStable(t *testing.T) {
	a := ShortHash("123:abc")
	assert.Len(t, a, 16)
	assert.Equal(t, a, ShortHash("123:abc"))
	assert.NotEqual(t, a, ShortHash("123:abd"))
	// FNV-1a 64 offset basis для пустой строки
	assert.Equal(t, "cbf29ce484222325", ShortHash(""))
}
