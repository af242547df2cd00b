package telegram

import (
	"sync"

	"design-tutor/api/internal/tutor"
)

var chatLang sync.Map // chatID -> language code

func setLang(chatID int64, code string) { chatLang.Store(chatID, code) }

func getLang(chatID int64) string {
	if v, ok := chatLang.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return tutor.DefaultLanguage
}
