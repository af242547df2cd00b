package tutor

import (
	"strings"
	"unicode/utf8"
)

const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"

	TimeShort  = "15-30 minutes"
	TimeMedium = "30-60 minutes"
	TimeLong   = "1-2 hours"

	// ComponentsPlaceholder is returned when no component line was found.
	ComponentsPlaceholder = "UI Components detected in tutorial"

	maxComponents      = 10
	maxComponentLength = 50
)

var componentStripper = strings.NewReplacer("*", "", "-", "")

// ExtractComponents picks lines mentioning "component" that look like list
// entries or headings ("Header Component", "- Card Component: ...").
func ExtractComponents(text string) []string {
	var components []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "component") {
			continue
		}
		if !strings.ContainsAny(line, ":-") {
			continue
		}
		cleaned := strings.TrimSpace(componentStripper.Replace(line))
		name, _, _ := strings.Cut(cleaned, ":")
		name = strings.TrimSpace(name)
		if utf8.RuneCountInString(name) < maxComponentLength {
			components = append(components, name)
		}
		if len(components) == maxComponents {
			break
		}
	}
	if len(components) == 0 {
		return []string{ComponentsPlaceholder}
	}
	return components
}

// EstimateDifficulty checks Beginner first and Advanced second; when both
// match, Advanced wins.
func EstimateDifficulty(text string) string {
	difficulty := DifficultyIntermediate
	if strings.Contains(text, "useState") && !strings.Contains(text, "useEffect") {
		difficulty = DifficultyBeginner
	}
	if strings.Contains(text, "useContext") || strings.Contains(text, "useReducer") {
		difficulty = DifficultyAdvanced
	}
	return difficulty
}

// EstimateTime buckets the tutorial by whitespace-delimited word count.
func EstimateTime(text string) string {
	words := len(strings.Fields(text))
	switch {
	case words < 500:
		return TimeShort
	case words < 1000:
		return TimeMedium
	default:
		return TimeLong
	}
}
