package llm

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// Response is a single completion plus token accounting when the provider reports it.
type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is a hosted chat-completion provider.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
