package assistant

import (
	"context"
	"fmt"
	"strings"

	"retail-assistant/internal/history"
	"retail-assistant/internal/llm"
	"retail-assistant/internal/query"
	"retail-assistant/internal/reply"
	"retail-assistant/internal/storage"
)

// User-facing texts shared by every front-end.
const (
	HeaderRows    = "SQL Query Result:"
	HeaderText    = "Response from Model:"
	HeaderHistory = "Chat History"
	MsgNoData     = "No data returned or SQL query was invalid."
	MsgNoHistory  = "No search history available."
)

// Executor runs a SQL statement and returns nil when it fails.
type Executor interface {
	Run(ctx context.Context, sql string) *query.Result
}

type Service struct {
	llm  llm.Client
	exec Executor
}

func New(client llm.Client, exec Executor) *Service {
	return &Service{llm: client, exec: exec}
}

// Outcome is what one chat turn produced.
// For a query reply exactly one of Result and NoData is set.
type Outcome struct {
	Question string
	Reply    reply.Reply
	Result   *query.Result
	NoData   bool
}

// Ask runs one chat turn: model call, recording, then either query execution or plain text.
// A model error is returned as is and nothing is recorded.
func (s *Service) Ask(ctx context.Context, session *history.Session, question string) (Outcome, error) {
	raw, err := llm.Ask(ctx, s.llm, question)
	if err != nil {
		return Outcome{}, fmt.Errorf("model call failed: %w", err)
	}
	session.Append(storage.RoleUser, question, &raw)

	out := Outcome{Question: question, Reply: reply.Classify(raw)}
	if !out.Reply.IsQuery() {
		return out, nil
	}
	res := s.exec.Run(ctx, out.Reply.Payload)
	// execution failure and an empty result are reported the same way
	if res == nil || len(res.Rows) == 0 {
		out.NoData = true
		return out, nil
	}
	out.Result = res
	return out, nil
}

// Text renders the outcome the way the chat view shows it.
func (o Outcome) Text() string {
	var b strings.Builder
	switch {
	case !o.Reply.IsQuery():
		b.WriteString(HeaderText)
		b.WriteString("\n")
		b.WriteString(o.Reply.Payload)
	case o.NoData:
		b.WriteString(MsgNoData)
	default:
		b.WriteString(HeaderRows)
		for _, row := range o.Result.Rows {
			b.WriteString("\n")
			b.WriteString(query.FormatRow(row))
		}
	}
	return b.String()
}

// History loads the persisted log, newest first.
func History(store storage.Store) []storage.ChatTurn {
	return history.SortNewestFirst(store.Load())
}

func FormatTurn(t storage.ChatTurn) string {
	resp := "(none)"
	if t.Response != nil {
		resp = *t.Response
	}
	return fmt.Sprintf("Time: %s\nUser: %s\nResponse: %s", t.Timestamp, t.Message, resp)
}

// HistoryText renders turns as blocks separated by blank lines.
func HistoryText(turns []storage.ChatTurn) string {
	if len(turns) == 0 {
		return MsgNoHistory
	}
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		blocks = append(blocks, FormatTurn(t))
	}
	return HeaderHistory + "\n\n" + strings.Join(blocks, "\n\n")
}
