package session

import (
	"strings"
	"time"

	"english-tutor-be/pkg/tutor"
)

// Mode selects which pipeline processes a turn.
type Mode string

const (
	ModeTutor Mode = "tutor" // instant grammar correction
	ModeChat  Mode = "chat"  // free conversation, assessment on demand
)

// ParseMode accepts "tutor" or "chat" in any case.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeTutor:
		return ModeTutor, nil
	case ModeChat:
		return ModeChat, nil
	default:
		return "", &tutor.ValidationError{Field: "mode", Message: "must be one of tutor, chat"}
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry.
type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Correction is one grammar fix. Original is a span of the learner's message.
type Correction struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// State is the mutable record of one active conversation.
type State struct {
	ID             string       `json:"id"`
	Mode           Mode         `json:"mode"`
	Transcript     []Turn       `json:"transcript"`
	CorrectionLog  []Correction `json:"correction_log"`
	MessageCount   int          `json:"message_count"`
	EstimatedLevel Level        `json:"estimated_level"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// New returns an empty TUTOR-mode session.
func New(id string) *State {
	return &State{
		ID:             id,
		Mode:           ModeTutor,
		Transcript:     []Turn{},
		CorrectionLog:  []Correction{},
		EstimatedLevel: LevelIntermediate,
		UpdatedAt:      time.Now(),
	}
}

// ClearConversation drops transcript, corrections and the message counter.
// Mode and level estimate survive.
func (s *State) ClearConversation() {
	s.Transcript = []Turn{}
	s.CorrectionLog = []Correction{}
	s.MessageCount = 0
	s.UpdatedAt = time.Now()
}

// UserTurns returns the learner's turns in order.
func (s *State) UserTurns() []Turn {
	out := make([]Turn, 0, s.MessageCount)
	for _, t := range s.Transcript {
		if t.Role == RoleUser {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *State) Clone() *State {
	c := *s
	c.Transcript = append([]Turn(nil), s.Transcript...)
	c.CorrectionLog = append([]Correction(nil), s.CorrectionLog...)
	if c.Transcript == nil {
		c.Transcript = []Turn{}
	}
	if c.CorrectionLog == nil {
		c.CorrectionLog = []Correction{}
	}
	return &c
}
