package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor/session"
)

type rawCorrection struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Correction  string `json:"correction"` // older prompt wording
	Explanation string `json:"explanation"`
}

// ParseCorrections decodes the grammar checker's answer.
// Entries missing original or corrected text are skipped; anything that is not
// a JSON object with an "errors" list returns an error so the caller can degrade.
func ParseCorrections(text string) ([]session.Correction, error) {
	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal([]byte(obj), &envelope); err != nil {
		return nil, fmt.Errorf("decode corrections: %w", err)
	}

	out := make([]session.Correction, 0, len(envelope.Errors))
	for _, item := range envelope.Errors {
		var rc rawCorrection
		if err := json.Unmarshal(item, &rc); err != nil {
			continue
		}
		corrected := rc.Corrected
		if corrected == "" {
			corrected = rc.Correction
		}
		original := strings.TrimSpace(rc.Original)
		corrected = strings.TrimSpace(corrected)
		if original == "" || corrected == "" {
			continue
		}
		out = append(out, session.Correction{
			Original:    original,
			Corrected:   corrected,
			Explanation: strings.TrimSpace(rc.Explanation),
		})
	}
	return out, nil
}
