package events

import (
	"testing"
	"time"

	"english-tutor-be/pkg/tutor/feedback"
	"english-tutor-be/pkg/tutor/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnCompletedThroughWire(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := TurnCompletedPayload{
		SessionID:    "s1",
		Mode:         "tutor",
		UserText:     "I has a apple",
		Reply:        "Try 'I have an apple'.",
		Corrections:  []session.Correction{{Original: "has", Corrected: "have", Explanation: "agreement"}},
		MessageCount: 1,
		Level:        "beginner",
	}

	data, err := Marshal(NewTurnCompleted(in, at))
	require.NoError(t, err)

	evt, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, TypeTurnCompleted, evt.EventType())
	assert.True(t, at.Equal(evt.Timestamp()))

	var out TurnCompletedPayload
	require.NoError(t, DecodePayload(evt, &out))
	assert.Equal(t, in, out)
}

func TestFeedbackGeneratedPayload(t *testing.T) {
	report := &feedback.Report{OverallScore: 70, Tips: []string{"read more"}, TotalMessages: 3}
	evt := NewFeedbackGenerated(FeedbackGeneratedPayload{SessionID: "s1", Mode: "chat", Report: report}, time.Now())

	var out FeedbackGeneratedPayload
	require.NoError(t, DecodePayload(evt, &out))
	require.NotNil(t, out.Report)
	assert.Equal(t, float64(70), out.Report.OverallScore)
	assert.Equal(t, 3, out.Report.TotalMessages)
}

func TestUnmarshalRejectsUntyped(t *testing.T) {
	_, err := Unmarshal([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}
