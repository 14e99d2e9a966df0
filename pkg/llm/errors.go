package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ProviderError reports an outage, timeout or quota failure from a model backend.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.Op != "" {
		b.WriteString(" ")
		b.WriteString(e.Op)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure came from a deadline.
func (e *ProviderError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// QuotaExceeded reports whether the backend rejected the call for rate or quota reasons.
func (e *ProviderError) QuotaExceeded() bool {
	return e.StatusCode == 429
}

// NewProviderError wraps err unless it already is a ProviderError.
func NewProviderError(provider, op string, statusCode int, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Op: op, StatusCode: statusCode, Err: err}
}

// IsProviderError reports whether err (or anything it wraps) is a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
