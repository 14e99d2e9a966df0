package llm

import (
	"errors"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object in model output")

// ExtractJSONObject returns the span between the first '{' and the last '}'.
// Models often wrap structured output in prose or code fences.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", ErrNoJSONObject
	}
	return text[start : end+1], nil
}
