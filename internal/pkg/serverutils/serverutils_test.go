package serverutils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	providerErr := llm.NewProviderError("groq", "chat", 503, errors.New("unavailable"))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDraft  string
	}{
		{"validation", &tutor.ValidationError{Field: "message", Message: "must not be empty"}, 400, ErrorTypeValidation, ""},
		{"insufficient data", fmt.Errorf("feedback: %w", tutor.ErrInsufficientData), 400, ErrorTypeInsufficientData, ""},
		{"busy", tutor.ErrSessionBusy, 409, ErrorTypeSessionBusy, ""},
		{"provider", providerErr, 502, ErrorTypeProvider, ""},
		{"provider with draft", WithDraft(providerErr, "I has a apple"), 502, ErrorTypeProvider, "I has a apple"},
		{"fiber", fiber.NewError(http.StatusUnprocessableEntity, "bad body"), 422, "", ""},
		{"unknown", errors.New("disk full"), 500, ErrorTypeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantType, body.ErrorType)
			assert.Equal(t, tt.wantDraft, body.Draft)
		})
	}
}

func TestClassifyMessages(t *testing.T) {
	_, body := Classify(tutor.ErrInsufficientData)
	assert.Equal(t, MessageNoMessages, body.Message)

	_, body = Classify(llm.NewProviderError("fake", "chat", 0, errors.New("x")))
	assert.Equal(t, MessageProviderFailure, body.Message)
}

func TestWithDraftIgnoresOtherErrors(t *testing.T) {
	err := &tutor.ValidationError{Field: "message", Message: "must not be empty"}
	assert.Same(t, err, WithDraft(err, "draft"))
	assert.Nil(t, WithDraft(nil, "draft"))
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Mode string `json:"mode" validate:"required,oneof=tutor chat"`
		Note string `json:"note" validate:"max=5"`
	}

	assert.NoError(t, ValidateRequest(req{Mode: "chat"}))

	err := ValidateRequest(req{})
	assert.True(t, tutor.IsValidationError(err))
	assert.EqualError(t, err, "invalid mode: is required")

	err = ValidateRequest(req{Mode: "exam"})
	assert.EqualError(t, err, "invalid mode: must be one of tutor, chat")

	err = ValidateRequest(req{Mode: "chat", Note: "too long"})
	assert.EqualError(t, err, "invalid note: must be at most 5 characters")
}
