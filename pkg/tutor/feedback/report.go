package feedback

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor/session"
)

// Report is the structured assessment of one transcript.
type Report struct {
	OverallScore          float64                `json:"overall_score"`
	Strengths             []string               `json:"strengths"`
	AreasToImprove        []string               `json:"areas_to_improve"`
	Tips                  []string               `json:"tips"`
	GrammarErrors         []session.Correction   `json:"grammar_errors"`
	VocabularySuggestions []VocabularySuggestion `json:"vocabulary_suggestions"`
	Encouragement         string                 `json:"encouragement"`
	TotalMessages         int                    `json:"total_messages"`

	GeneratedAt time.Time `json:"-"`
}

type VocabularySuggestion struct {
	Original           string   `json:"original"`
	BetterAlternatives []string `json:"better_alternatives"`
	Context            string   `json:"context,omitempty"`
}

// emptyReport has every list initialized so it serializes as [] rather than null.
func emptyReport() *Report {
	return &Report{
		Strengths:             []string{},
		AreasToImprove:        []string{},
		Tips:                  []string{},
		GrammarErrors:         []session.Correction{},
		VocabularySuggestions: []VocabularySuggestion{},
	}
}

// ParseReport decodes the model's answer field by field.
// A malformed field defaults to its zero value without affecting the others.
// degraded reports whether anything had to be defaulted.
func ParseReport(text string) (report *Report, degraded bool) {
	report = emptyReport()

	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		return report, true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return report, true
	}

	score, ok := parseScore(fields["overall_score"])
	if !ok {
		degraded = true
	}
	report.OverallScore, ok = NormalizeScore(score)
	if !ok {
		degraded = true
	}

	degraded = !decodeStrings(fields["strengths"], &report.Strengths) || degraded
	degraded = !decodeStrings(fields["areas_to_improve"], &report.AreasToImprove) || degraded
	degraded = !decodeStrings(fields["tips"], &report.Tips) || degraded
	degraded = !decodeCorrections(fields["grammar_errors"], &report.GrammarErrors) || degraded
	degraded = !decodeVocabulary(fields["vocabulary_suggestions"], &report.VocabularySuggestions) || degraded

	if raw, present := fields["encouragement"]; present {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			degraded = true
		} else {
			report.Encouragement = strings.TrimSpace(s)
		}
	}

	return report, degraded
}

// NormalizeScore maps a 10-point score onto the 100-point scale.
// Values in (0, 10] are multiplied by 10 and rounded to 2 decimals; values in
// (10, 100] pass through unchanged. Anything outside [0, 100] yields (0, false).
func NormalizeScore(score float64) (float64, bool) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return 0, false
	}
	if score > 0 && score <= 10 {
		return math.Round(score*10*100) / 100, true
	}
	return score, true
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// parseScore accepts a JSON number or a string such as "7" or "7/10".
// Absent, negative, non-finite and unparsable values yield 0.
func parseScore(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, true
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func decodeStrings(raw json.RawMessage, dst *[]string) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	ok := true
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			ok = false
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			*dst = append(*dst, s)
		}
	}
	return ok
}

func decodeCorrections(raw json.RawMessage, dst *[]session.Correction) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	ok := true
	for _, item := range items {
		var c struct {
			Original    string `json:"original"`
			Corrected   string `json:"corrected"`
			Correction  string `json:"correction"`
			Explanation string `json:"explanation"`
		}
		if err := json.Unmarshal(item, &c); err != nil {
			ok = false
			continue
		}
		if c.Corrected == "" {
			c.Corrected = c.Correction
		}
		original, corrected := strings.TrimSpace(c.Original), strings.TrimSpace(c.Corrected)
		if original == "" || corrected == "" {
			continue
		}
		*dst = append(*dst, session.Correction{
			Original:    original,
			Corrected:   corrected,
			Explanation: strings.TrimSpace(c.Explanation),
		})
	}
	return ok
}

func decodeVocabulary(raw json.RawMessage, dst *[]VocabularySuggestion) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	ok := true
	for _, item := range items {
		var v struct {
			Original           string            `json:"original"`
			BetterAlternatives []json.RawMessage `json:"better_alternatives"`
			Context            string            `json:"context"`
		}
		if err := json.Unmarshal(item, &v); err != nil {
			ok = false
			continue
		}
		original := strings.TrimSpace(v.Original)
		if original == "" {
			continue
		}
		alternatives := []string{}
		for _, a := range v.BetterAlternatives {
			var s string
			if err := json.Unmarshal(a, &s); err == nil && strings.TrimSpace(s) != "" {
				alternatives = append(alternatives, strings.TrimSpace(s))
			}
		}
		*dst = append(*dst, VocabularySuggestion{
			Original:           original,
			BetterAlternatives: alternatives,
			Context:            strings.TrimSpace(v.Context),
		})
	}
	return ok
}
