package serverutils

import (
	"errors"
	"net/http"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor"

	"github.com/gofiber/fiber/v2"
)

const (
	ErrorTypeValidation       = "validation_error"
	ErrorTypeInsufficientData = "insufficient_data"
	ErrorTypeProvider         = "provider_error"
	ErrorTypeSessionBusy      = "session_busy"
	ErrorTypeInternal         = "internal_error"

	MessageProviderFailure = "Sorry, there was an error processing your message. Please try again."
	MessageNoMessages      = "Start chatting to get feedback!"
	MessageSessionBusy     = "Still working on your previous message. Please wait a moment."
)

// DraftError carries the learner's unsent text alongside the failure.
type DraftError struct {
	Err   error
	Draft string
}

func (e *DraftError) Error() string { return e.Err.Error() }
func (e *DraftError) Unwrap() error { return e.Err }

// WithDraft attaches draft to provider failures and leaves other errors alone.
func WithDraft(err error, draft string) error {
	if err == nil || !llm.IsProviderError(err) {
		return err
	}
	return &DraftError{Err: err, Draft: draft}
}

// Classify maps an error to its HTTP status and client body.
func Classify(err error) (int, *ErrorBody) {
	var (
		ve       *tutor.ValidationError
		fe       *fiber.Error
		draftErr *DraftError
	)

	switch {
	case errors.As(err, &ve):
		body := ErrorResponse(http.StatusBadRequest, ve.Error())
		body.ErrorType = ErrorTypeValidation
		return http.StatusBadRequest, body

	case errors.Is(err, tutor.ErrInsufficientData):
		body := ErrorResponse(http.StatusBadRequest, MessageNoMessages)
		body.ErrorType = ErrorTypeInsufficientData
		return http.StatusBadRequest, body

	case errors.Is(err, tutor.ErrSessionBusy):
		body := ErrorResponse(http.StatusConflict, MessageSessionBusy)
		body.ErrorType = ErrorTypeSessionBusy
		return http.StatusConflict, body

	case llm.IsProviderError(err):
		body := ErrorResponse(http.StatusBadGateway, MessageProviderFailure)
		body.ErrorType = ErrorTypeProvider
		if errors.As(err, &draftErr) {
			body.Draft = draftErr.Draft
		}
		return http.StatusBadGateway, body

	case errors.As(err, &fe):
		return fe.Code, ErrorResponse(fe.Code, fe.Message)

	default:
		body := ErrorResponse(http.StatusInternalServerError, "Internal server error")
		body.ErrorType = ErrorTypeInternal
		return http.StatusInternalServerError, body
	}
}
