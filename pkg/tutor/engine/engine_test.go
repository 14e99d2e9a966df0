package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/llm/llmtest"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/session"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newEngine(fake *llmtest.Provider) *Engine {
	e := New(fake, DefaultConfig(), tutor.NopLogger{})
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestProcessTurnTutorScenario(t *testing.T) {
	fake := llmtest.New().
		Reply(`{"errors":[{"original":"I has","corrected":"I have","explanation":"Use 'have' with 'I'."}],"is_correct":false}`).
		Reply("Nice! Just remember: 'I have an apple'. Do you like fruit?")
	e := newEngine(fake)
	st := session.New("s1")

	res, err := e.ProcessTurn(context.Background(), st, "  I has a apple ")
	require.NoError(t, err)

	require.Len(t, res.Corrections, 1)
	assert.Contains(t, res.Corrections[0].Original, "has")
	assert.Contains(t, res.Corrections[0].Corrected, "have")
	assert.Equal(t, 1, res.MessageCount)
	assert.Equal(t, session.ModeTutor, res.Mode)
	assert.Equal(t, "Nice! Just remember: 'I have an apple'. Do you like fruit?", res.Reply)

	require.Len(t, st.Transcript, 2)
	assert.Equal(t, session.Turn{Role: session.RoleUser, Text: "I has a apple", At: fixedNow}, st.Transcript[0])
	assert.Equal(t, session.RoleAssistant, st.Transcript[1].Role)
	assert.Equal(t, res.Corrections, st.CorrectionLog)
	assert.Equal(t, 1, st.MessageCount)
	assert.Equal(t, fixedNow, st.UpdatedAt)
	assert.Len(t, fake.Calls(), 2)
}

func TestProcessTurnTutorNoCorrections(t *testing.T) {
	fake := llmtest.New().
		Reply(`{"errors": [], "is_correct": true}`).
		Reply("Perfect sentence! What did you do today?")
	st := session.New("s1")

	res, err := newEngine(fake).ProcessTurn(context.Background(), st, "I went to the park with my friends yesterday.")
	require.NoError(t, err)

	assert.Empty(t, res.Corrections)
	assert.NotNil(t, res.Corrections)
	assert.NotEmpty(t, res.Reply)
	assert.Len(t, st.Transcript, 2)
	assert.Empty(t, st.CorrectionLog)
}

func TestProcessTurnDegradedGrammar(t *testing.T) {
	fake := llmtest.New().
		Reply("errors: none I think").
		Reply("Sounds fun!")
	st := session.New("s1")

	res, err := newEngine(fake).ProcessTurn(context.Background(), st, "We play football on sunday")
	require.NoError(t, err)
	assert.Empty(t, res.Corrections)
	assert.Equal(t, "Sounds fun!", res.Reply)
	assert.Equal(t, 1, st.MessageCount)
}

func TestProcessTurnChatNeverCorrects(t *testing.T) {
	fake := llmtest.New().Reply("Oh cool!").Reply("Haha, me too.")
	e := newEngine(fake)
	st := session.New("s1")
	_, err := e.SwitchMode(st, "chat")
	require.NoError(t, err)

	_, err = e.ProcessTurn(context.Background(), st, "I has a dog")
	require.NoError(t, err)
	res, err := e.ProcessTurn(context.Background(), st, "He like bones")
	require.NoError(t, err)

	assert.Empty(t, res.Corrections)
	assert.Equal(t, 2, res.MessageCount)
	assert.Len(t, st.Transcript, 4)
	assert.Empty(t, st.CorrectionLog)

	// The second call carries the first turn as context.
	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[1].History, 3)
	assert.Equal(t, "I has a dog", calls[1].History[0].Content)
}

func TestProcessTurnValidation(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", " \t\n "},
		{"too long", strings.Repeat("a", DefaultMaxMessageLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := llmtest.New()
			st := session.New("s1")
			before := st.Clone()

			_, err := newEngine(fake).ProcessTurn(context.Background(), st, tt.text)

			assert.True(t, tutor.IsValidationError(err))
			assert.Empty(t, fake.Calls())
			if diff := cmp.Diff(before, st); diff != "" {
				t.Errorf("state mutated (-before +after):\n%s", diff)
			}
		})
	}
}

func TestProcessTurnAtomicOnProviderError(t *testing.T) {
	tests := []struct {
		name string
		mode session.Mode
		fake *llmtest.Provider
	}{
		{"tutor grammar call fails", session.ModeTutor, llmtest.New().Fail(errors.New("503"))},
		{"tutor reply call fails", session.ModeTutor, llmtest.New().Reply(`{"errors":[{"original":"a","corrected":"b"}]}`).Fail(errors.New("429"))},
		{"chat reply fails", session.ModeChat, llmtest.New().Fail(errors.New("timeout"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := session.New("s1")
			st.Mode = tt.mode
			st.Transcript = []session.Turn{
				{Role: session.RoleUser, Text: "hello there"},
				{Role: session.RoleAssistant, Text: "hi"},
			}
			st.MessageCount = 1
			before := st.Clone()

			res, err := newEngine(tt.fake).ProcessTurn(context.Background(), st, "How are you")

			assert.Nil(t, res)
			assert.True(t, llm.IsProviderError(err))
			if diff := cmp.Diff(before, st); diff != "" {
				t.Errorf("state mutated on failure (-before +after):\n%s", diff)
			}
		})
	}
}

func TestProcessTurnCanceledContext(t *testing.T) {
	fake := llmtest.New().Reply("unused")
	e := New(fake, DefaultConfig(), nil)
	st := session.New("s1")
	st.Mode = session.ModeChat

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ProcessTurn(ctx, st, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, st.Transcript)
}

func TestTranscriptGrowsByTwoPerTurn(t *testing.T) {
	fake := llmtest.New()
	for i := 0; i < 5; i++ {
		fake.Reply(`{"errors":[]}`).Reply("ok")
	}
	e := newEngine(fake)
	st := session.New("s1")

	for i := 1; i <= 5; i++ {
		prev := len(st.Transcript)
		_, err := e.ProcessTurn(context.Background(), st, "This is message number one")
		require.NoError(t, err)
		assert.Equal(t, prev+2, len(st.Transcript))
		assert.Equal(t, i, st.MessageCount)
	}
}

func TestSwitchMode(t *testing.T) {
	e := newEngine(llmtest.New())

	t.Run("resets conversation", func(t *testing.T) {
		st := session.New("s1")
		st.Transcript = []session.Turn{{Role: session.RoleUser, Text: "x"}, {Role: session.RoleAssistant, Text: "y"}}
		st.CorrectionLog = []session.Correction{{Original: "a", Corrected: "b"}}
		st.MessageCount = 7
		st.EstimatedLevel = session.LevelAdvanced

		changed, err := e.SwitchMode(st, "CHAT")
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, session.ModeChat, st.Mode)
		assert.Empty(t, st.Transcript)
		assert.Empty(t, st.CorrectionLog)
		assert.Equal(t, 0, st.MessageCount)
		assert.Equal(t, session.LevelAdvanced, st.EstimatedLevel)
	})

	t.Run("idempotent", func(t *testing.T) {
		st := session.New("s1")
		_, err := e.SwitchMode(st, "chat")
		require.NoError(t, err)
		st.Transcript = []session.Turn{{Role: session.RoleUser, Text: "x"}}
		st.MessageCount = 1
		before := st.Clone()

		changed, err := e.SwitchMode(st, "chat")
		require.NoError(t, err)
		assert.False(t, changed)
		if diff := cmp.Diff(before, st); diff != "" {
			t.Errorf("no-op switch mutated state (-before +after):\n%s", diff)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		st := session.New("s1")
		st.MessageCount = 3
		changed, err := e.SwitchMode(st, "exam")
		assert.False(t, changed)
		assert.True(t, tutor.IsValidationError(err))
		assert.Equal(t, session.ModeTutor, st.Mode)
		assert.Equal(t, 3, st.MessageCount)
	})
}

func TestReset(t *testing.T) {
	e := newEngine(llmtest.New())
	st := session.New("s1")
	st.Mode = session.ModeChat
	st.Transcript = []session.Turn{{Role: session.RoleUser, Text: "x"}}
	st.MessageCount = 1

	e.Reset(st)

	assert.Equal(t, session.ModeChat, st.Mode)
	assert.Empty(t, st.Transcript)
	assert.Equal(t, 0, st.MessageCount)
}

func TestChatSessionFeedbackScenario(t *testing.T) {
	fake := llmtest.New().
		Reply("Hi! I'm good.").
		Reply("Which school?").
		Reply("Yum!").
		Reply(`{"overall_score": 7, "grammar_errors": [{"original": "She go", "corrected": "She goes", "explanation": "third person singular"}], "strengths": ["friendly"], "encouragement": "Well done"}`)
	e := newEngine(fake)
	st := session.New("s1")
	_, err := e.SwitchMode(st, "chat")
	require.NoError(t, err)

	for _, msg := range []string{"Hello how are you", "She go to school", "I love pizza"} {
		_, err := e.ProcessTurn(context.Background(), st, msg)
		require.NoError(t, err)
	}
	before := st.Clone()

	report, err := e.Feedback(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalMessages)
	assert.Equal(t, float64(70), report.OverallScore)
	assert.NotEmpty(t, report.GrammarErrors)
	assert.Empty(t, st.CorrectionLog)
	if diff := cmp.Diff(before, st); diff != "" {
		t.Errorf("feedback mutated state (-before +after):\n%s", diff)
	}
}

func TestFeedbackInsufficientData(t *testing.T) {
	fake := llmtest.New()
	_, err := newEngine(fake).Feedback(context.Background(), session.New("s1"))

	assert.ErrorIs(t, err, tutor.ErrInsufficientData)
	assert.Empty(t, fake.Calls())
}

func TestLevelEstimateUpdatesPerTurn(t *testing.T) {
	fake := llmtest.New().
		Reply(`{"errors":[{"original":"go","corrected":"went"},{"original":"shop","corrected":"the shop"}]}`).
		Reply("Good try!")
	st := session.New("s1")

	res, err := newEngine(fake).ProcessTurn(context.Background(), st, "Yesterday I go shop")
	require.NoError(t, err)
	assert.Equal(t, session.LevelBeginner, res.EstimatedLevel)
	assert.Equal(t, session.LevelBeginner, st.EstimatedLevel)
}
