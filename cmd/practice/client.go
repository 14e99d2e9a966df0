package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"english-tutor-be/internal/controller"
	"english-tutor-be/internal/pkg/serverutils"
)

// apiClient keeps the session id the server hands out on the first call.
type apiClient struct {
	baseURL   string
	sessionID string
	http      *http.Client
}

// apiError is a non-2xx reply decoded from the error envelope.
type apiError struct {
	Status int
	Body   serverutils.ErrorBody
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Body.ErrorType, e.Body.Message)
}

func newAPIClient(baseURL, sessionID string) *apiClient {
	return &apiClient{
		baseURL:   strings.TrimRight(baseURL, "/") + "/api",
		sessionID: sessionID,
		http:      &http.Client{},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(controller.SessionHeader, c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if id := resp.Header.Get(controller.SessionHeader); id != "" {
		c.sessionID = id
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, &apiErr.Body); err != nil {
			apiErr.Body.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
