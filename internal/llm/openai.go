package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Fixed sampling parameters for every completion.
const (
	MaxTokens         = 512
	Temperature       = 0.7
	TopP              = 0.7
	TopK              = 50
	RepetitionPenalty = 1
	StopToken         = "</s>"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

// samplingTransport adds request fields go-openai has no struct fields for
// (top_k, repetition_penalty) to chat completion bodies.
type samplingTransport struct {
	rt    http.RoundTripper
	extra map[string]any
}

func (t samplingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/chat/completions") || req.Body == nil {
		return t.rt.RoundTrip(req)
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	for k, v := range t.extra {
		if _, ok := body[k]; !ok {
			body[k] = v
		}
	}
	out, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	// Clone request to avoid mutating the original
	cl := req.Clone(req.Context())
	cl.Body = io.NopCloser(bytes.NewReader(out))
	cl.ContentLength = int64(len(out))
	cl.Header.Set("Content-Length", strconv.Itoa(len(out)))
	return t.rt.RoundTrip(cl)
}

// NewOpenAI builds a client for any OpenAI-compatible endpoint, Together.ai by default.
func NewOpenAI(apiKey, baseURL, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{Transport: samplingTransport{
		rt: http.DefaultTransport,
		extra: map[string]any{
			"top_k":              TopK,
			"repetition_penalty": RepetitionPenalty,
		},
	}}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
		TopP:        TopP,
		Stop:        []string{StopToken},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("chat completion returned no choices")
	}

	out := Response{
		Content: resp.Choices[0].Message.Content,
		Model:   c.model,
	}
	out.PromptTokens = resp.Usage.PromptTokens
	out.CompletionTokens = resp.Usage.CompletionTokens
	out.TotalTokens = resp.Usage.TotalTokens
	return out, nil
}
