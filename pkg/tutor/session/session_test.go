package session

import (
	"strings"
	"testing"

	"english-tutor-be/pkg/tutor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    Mode
		wantErr bool
	}{
		{raw: "tutor", want: ModeTutor},
		{raw: " CHAT ", want: ModeChat},
		{raw: "", wantErr: true},
		{raw: "exam", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMode(tt.raw)
			if tt.wantErr {
				assert.True(t, tutor.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAndClear(t *testing.T) {
	s := New("abc")
	assert.Equal(t, ModeTutor, s.Mode)
	assert.Equal(t, LevelIntermediate, s.EstimatedLevel)
	assert.Empty(t, s.Transcript)

	s.Mode = ModeChat
	s.Transcript = append(s.Transcript, Turn{Role: RoleUser, Text: "hi"}, Turn{Role: RoleAssistant, Text: "hello"})
	s.CorrectionLog = append(s.CorrectionLog, Correction{Original: "a", Corrected: "b"})
	s.MessageCount = 1
	s.EstimatedLevel = LevelAdvanced

	s.ClearConversation()
	assert.Equal(t, ModeChat, s.Mode)
	assert.Equal(t, LevelAdvanced, s.EstimatedLevel)
	assert.Empty(t, s.Transcript)
	assert.Empty(t, s.CorrectionLog)
	assert.Zero(t, s.MessageCount)
}

func TestCloneIsDeep(t *testing.T) {
	s := New("abc")
	s.Transcript = append(s.Transcript, Turn{Role: RoleUser, Text: "one"})

	c := s.Clone()
	c.Transcript[0].Text = "changed"
	c.Transcript = append(c.Transcript, Turn{Role: RoleAssistant, Text: "two"})

	assert.Equal(t, "one", s.Transcript[0].Text)
	assert.Len(t, s.Transcript, 1)
}

func TestEstimateLevel(t *testing.T) {
	withTurns := func(mode Mode, texts []string, corrections int) *State {
		s := New("x")
		s.Mode = mode
		for _, text := range texts {
			s.Transcript = append(s.Transcript, Turn{Role: RoleUser, Text: text}, Turn{Role: RoleAssistant, Text: "ok"})
			s.MessageCount++
		}
		for i := 0; i < corrections; i++ {
			s.CorrectionLog = append(s.CorrectionLog, Correction{Original: "x", Corrected: "y"})
		}
		return s
	}

	long := strings.Repeat("word ", 14)

	tests := []struct {
		name  string
		state *State
		want  Level
	}{
		{"empty keeps previous", func() *State { s := New("x"); s.EstimatedLevel = LevelAdvanced; return s }(), LevelAdvanced},
		{"short messages", withTurns(ModeChat, []string{"hi", "yes ok"}, 0), LevelBeginner},
		{"many corrections", withTurns(ModeTutor, []string{"I has a apple and she go home"}, 2), LevelBeginner},
		{"long and clean", withTurns(ModeTutor, []string{long, long}, 0), LevelAdvanced},
		{"chat ignores corrections", withTurns(ModeChat, []string{long}, 5), LevelAdvanced},
		{"middle", withTurns(ModeTutor, []string{"I went to the market yesterday with my sister"}, 1), LevelIntermediate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateLevel(tt.state))
		})
	}
}
