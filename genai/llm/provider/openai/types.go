package openai

// chatMessage is the wire shape of one message in a /chat/completions request.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// contentPart is one element of a multi-part message content array, used
// when the message carries image or document attachments alongside text.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
	Error   *apiError    `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// textOf returns the plain-text content of a chat message, collapsing a
// multi-part content array down to its first text part.
func textOf(m chatMessage) string {
	switch v := m.Content.(type) {
	case string:
		return v
	case []interface{}:
		for _, part := range v {
			if mp, ok := part.(map[string]interface{}); ok {
				if mp["type"] == "text" {
					if s, ok := mp["text"].(string); ok {
						return s
					}
				}
			}
		}
	}
	return ""
}
