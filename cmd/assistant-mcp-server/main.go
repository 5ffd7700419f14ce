package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"retail-assistant/internal/assistant"
	"retail-assistant/internal/config"
	"retail-assistant/internal/history"
	"retail-assistant/internal/llm"
	"retail-assistant/internal/query"
	"retail-assistant/internal/storage"
)

type AskParams struct {
	Question string `json:"question" mcp:"question for the retail assistant"`
}

type HistoryParams struct {
	Limit int `json:"limit,omitempty" mcp:"maximum number of turns to return, newest first (default: all)"`
}

// AssistantMCPServer exposes the chat turn and history view as MCP tools.
type AssistantMCPServer struct {
	svc     *assistant.Service
	store   storage.Store
	session *history.Session
}

func (s *AssistantMCPServer) Ask(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AskParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("MCP ask_assistant: %q", args.Question)

	out, err := s.svc.Ask(ctx, s.session, args.Question)
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("assistant failed: %v", err)},
			},
		}, nil
	}

	meta := map[string]interface{}{
		"kind": string(out.Reply.Kind),
	}
	if out.Reply.IsQuery() {
		meta["sql"] = out.Reply.Payload
		meta["no_data"] = out.NoData
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: out.Text()},
		},
		Meta: meta,
	}, nil
}

func (s *AssistantMCPServer) SearchHistory(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[HistoryParams]) (*mcp.CallToolResultFor[any], error) {
	turns := assistant.History(s.store)
	if limit := params.Arguments.Limit; limit > 0 && limit < len(turns) {
		turns = turns[:limit]
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: assistant.HistoryText(turns)},
		},
		Meta: map[string]interface{}{
			"count": len(turns),
		},
	}, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.LLMModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}
	store, err := storage.NewFileStore(cfg.ChatHistoryFile)
	if err != nil {
		log.Fatalf("failed to init history store: %v", err)
	}

	s := &AssistantMCPServer{
		svc:     assistant.New(llmClient, query.NewExecutor(cfg.DBFile)),
		store:   store,
		session: history.NewSession(store),
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "retail-assistant-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_assistant",
		Description: "Asks the retail assistant a question; product, sales and inventory questions are answered from the product database",
	}, s.Ask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_history",
		Description: "Returns recorded chat turns, newest first",
	}, s.SearchHistory)

	log.Printf("📋 Registered MCP tools: ask_assistant, search_history")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
