package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client generates a short descriptive caption for an encoded photo.
// The exchange is single-shot: one request, one response, no retry and
// no streaming. Any failure collapses to a plain error with a reason.
type Client interface {
	GenerateCaption(ctx context.Context, photoDataURI string) (string, error)
}

const captionPrompt = `You are an AI assistant that generates captions for photos.

Generate a short caption for the photo.`

type message struct {
	Role    string        `json:"role"`
	Content []contentItem `json:"content"`
}

type contentItem struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient calls an OpenAI-compatible chat-completions vision API.
type OpenAIClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewOpenAIClient creates a new captioning client
func NewOpenAIClient(endpoint, apiKey, model string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// GenerateCaption submits the photo inline and returns the model's caption
func (c *OpenAIClient) GenerateCaption(ctx context.Context, photoDataURI string) (string, error) {
	if _, err := ParseDataURI(photoDataURI); err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{
				Role: "user",
				Content: []contentItem{
					{Type: "text", Text: captionPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: photoDataURI}},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("model returned no output")
	}

	captionText := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if captionText == "" {
		return "", fmt.Errorf("model returned an empty caption")
	}

	return captionText, nil
}
