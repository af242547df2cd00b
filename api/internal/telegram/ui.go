package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"design-tutor/api/internal/tutor"
)

// maxMessageRunes stays under Telegram's 4096 limit.
const maxMessageRunes = 4000

func usageText() string {
	return "Send me a screenshot of a design and I will write a step-by-step React tutorial for it.\n" +
		"Commands:\n" +
		"/lang <code> — tutorial language (" + strings.Join(tutor.Languages(), ", ") + ")\n" +
		"/help — this message"
}

func formatHeader(out tutor.Response) string {
	return fmt.Sprintf("Difficulty: %s\nEstimated time: %s\nComponents: %s",
		out.EstimatedDifficulty, out.EstimatedTime, strings.Join(out.ComponentsDetected, ", "))
}

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		cut := byteOffset(text, limit)
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl > 0 {
			cut = nl + 1
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if strings.TrimSpace(text) != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// byteOffset returns the byte index just after the first n runes of s.
func byteOffset(s string, n int) int {
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}
