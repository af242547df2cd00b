package tutor

import "sort"

// DefaultLanguage is used for empty or unsupported language codes.
const DefaultLanguage = "en"

var languageInstructions = map[string]string{
	"en": "Write the tutorial in English.",
	"zh": "用中文写教程。",
	"ja": "チュートリアルを日本語で書いてください。",
	"de": "Schreiben Sie das Tutorial auf Deutsch.",
	"fr": "Rédigez le tutoriel en français.",
	"ko": "한국어로 튜토리얼을 작성하세요.",
	"es": "Escribe el tutorial en español.",
}

// ResolveLanguage returns the code actually used for generation: the input
// when it is supported, DefaultLanguage otherwise.
func ResolveLanguage(code string) string {
	if _, ok := languageInstructions[code]; ok {
		return code
	}
	return DefaultLanguage
}

// LanguageInstruction never fails: unknown codes get the English instruction.
func LanguageInstruction(code string) string {
	return languageInstructions[ResolveLanguage(code)]
}

// Languages lists the supported codes in sorted order.
func Languages() []string {
	out := make([]string, 0, len(languageInstructions))
	for k := range languageInstructions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
