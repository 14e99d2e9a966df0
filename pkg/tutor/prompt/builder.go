package prompt

import (
	"fmt"
	"strings"

	"english-tutor-be/pkg/tutor/session"
)

// GrammarPrompt builds the grammar-check prompt for a single message.
func (t Templates) GrammarPrompt(userText string) string {
	return strings.NewReplacer(PlaceholderUserMessage, userText).Replace(t.Grammar)
}

// TutorReplyPrompt picks the with/without-corrections variant.
func (t Templates) TutorReplyPrompt(userText string, corrections []session.Correction, level session.Level) string {
	tmpl := t.TutorReply
	if len(corrections) == 0 {
		tmpl = t.TutorReplyNoError
	}
	return strings.NewReplacer(
		PlaceholderUserMessage, userText,
		PlaceholderCorrections, formatCorrections(corrections),
		PlaceholderLevel, string(level),
	).Replace(tmpl)
}

// FeedbackPrompt serializes the whole transcript for the assessment call.
func (t Templates) FeedbackPrompt(transcript []session.Turn) string {
	return strings.NewReplacer(
		PlaceholderLearnerLog, formatLearnerMessages(transcript),
		PlaceholderTranscript, formatTranscript(transcript),
	).Replace(t.Feedback)
}

func formatCorrections(corrections []session.Correction) string {
	if len(corrections) == 0 {
		return "None"
	}
	var b strings.Builder
	for i, c := range corrections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- '%s' should be '%s'", c.Original, c.Corrected)
		if c.Explanation != "" {
			fmt.Fprintf(&b, " (%s)", c.Explanation)
		}
	}
	return b.String()
}

func formatLearnerMessages(transcript []session.Turn) string {
	var b strings.Builder
	n := 0
	for _, turn := range transcript {
		if turn.Role != session.RoleUser {
			continue
		}
		n++
		if n > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %q", n, turn.Text)
	}
	return b.String()
}

func formatTranscript(transcript []session.Turn) string {
	var b strings.Builder
	for i, turn := range transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		speaker := "Learner"
		if turn.Role == session.RoleAssistant {
			speaker = "Partner"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(turn.Text)
	}
	return b.String()
}
