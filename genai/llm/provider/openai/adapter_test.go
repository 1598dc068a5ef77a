package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/arbiter/genai/llm/provider"
)

func TestClient_Generate(t *testing.T) {
	testCases := []struct {
		description string
		status      int
		body        string
		expectText  string
		expectType  provider.ErrorType
	}{
		{
			description: "success",
			status:      http.StatusOK,
			body:        `{"choices":[{"index":0,"message":{"role":"assistant","content":"hello there"}}]}`,
			expectText:  "hello there",
		},
		{
			description: "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":"slow down"}}`,
			expectType:  provider.ErrorRateLimit,
		},
		{
			description: "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"bad key"}}`,
			expectType:  provider.ErrorAuthentication,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req chatRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient("test-key", "gpt-4o")
			client.BaseURL = server.URL

			text, err := client.Generate(context.Background(), "hi", "gpt-4o", nil)
			if tc.expectType != "" {
				assert.Error(t, err)
				assert.EqualValues(t, tc.expectType, provider.Classify(err))
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tc.expectText, text)
		})
	}
}

func TestClient_GenerateWithImage_UnsupportedMediaType(t *testing.T) {
	client := NewClient("test-key", "gpt-4o")
	_, err := client.GenerateWithImage(context.Background(), "hi", "gpt-4o", []byte("x"), "image/bmp", nil)
	assert.Error(t, err)
	assert.EqualValues(t, provider.ErrorContentPolicy, provider.Classify(err))
}

func TestClient_HasNativePDF(t *testing.T) {
	client := NewClient("test-key", "")
	assert.True(t, client.HasNativePDF("gpt-4o"))
	assert.True(t, client.HasNativePDF("gpt-5-mini"))
	assert.True(t, client.HasNativePDF("o4-mini"))
}
