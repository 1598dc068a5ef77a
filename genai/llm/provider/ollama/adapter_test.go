package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/arbiter/genai/llm/provider"
)

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	}))
	defer server.Close()

	client := NewClient("llama3")
	client.BaseURL = server.URL

	text, err := client.Generate(context.Background(), "hi", "llama3", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, "ok", text)
}

func TestClient_GenerateWithImage_Unsupported(t *testing.T) {
	client := NewClient("llama3")
	_, err := client.GenerateWithImage(context.Background(), "hi", "llama3", []byte("x"), "image/png", nil)
	assert.Error(t, err)
	assert.EqualValues(t, provider.ErrorContentPolicy, provider.Classify(err))
}
