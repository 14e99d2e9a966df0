package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"english-tutor-be/internal/controller"
	"english-tutor-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClientKeepsIssuedSession(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(controller.SessionHeader))
		if r.Header.Get(controller.SessionHeader) == "" {
			w.Header().Set(controller.SessionHeader, "issued-1")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL+"/", "")
	var res dto.StatusResponse
	require.NoError(t, client.do(context.Background(), http.MethodPost, "/clear", nil, &res))
	require.NoError(t, client.do(context.Background(), http.MethodPost, "/clear", nil, &res))

	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, []string{"", "issued-1"}, seen)
}

func TestAPIClientDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"code":502,"message":"try again","error_type":"provider_error","draft":"hi"}`))
	}))
	defer srv.Close()

	err := newAPIClient(srv.URL, "s1").do(context.Background(), http.MethodPost, "/chat", dto.ChatRequest{Message: "hi"}, nil)

	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "provider_error", apiErr.Body.ErrorType)
	assert.Equal(t, "hi", apiErr.Body.Draft)
}
