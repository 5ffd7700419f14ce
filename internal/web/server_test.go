package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"retail-assistant/internal/assistant"
	"retail-assistant/internal/history"
	"retail-assistant/internal/llm"
	"retail-assistant/internal/query"
	"retail-assistant/internal/storage"
)

type fakeLLM struct {
	content string
	err     error
}

func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return llm.Response{Content: f.content}, f.err
}

type fakeExec struct {
	res   *query.Result
	calls int
}

func (f *fakeExec) Run(ctx context.Context, sql string) *query.Result {
	f.calls++
	return f.res
}

func newTestServer(t *testing.T, m llm.Client, ex assistant.Executor) (*Server, *storage.FileStore) {
	t.Helper()
	st, err := storage.NewFileStore(filepath.Join(t.TempDir(), "chat_history.json"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return NewServer(assistant.New(m, ex), st, history.NewManager(st), 0), st
}

func postForm(h http.Handler, question string) *httptest.ResponseRecorder {
	form := url.Values{"question": {question}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChatPage_Get(t *testing.T) {
	srv, _ := newTestServer(t, fakeLLM{}, &fakeExec{})
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Personal Assistant") || !strings.Contains(body, `name="question"`) {
		t.Fatalf("chat page incomplete: %s", body)
	}
	if c := rr.Result().Cookies(); len(c) != 1 || c[0].Name != sessionCookie {
		t.Fatalf("session cookie not issued: %+v", c)
	}
}

func TestChatPage_TextReply(t *testing.T) {
	ex := &fakeExec{}
	srv, st := newTestServer(t, fakeLLM{content: "We open at <9am>."}, ex)
	rr := postForm(srv.Handler(), "When do you open?")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, assistant.HeaderText) || !strings.Contains(body, "We open at &lt;9am&gt;.") {
		t.Fatalf("text reply not rendered: %s", body)
	}
	if ex.calls != 0 {
		t.Fatalf("database must not be called")
	}
	if len(st.Load()) != 1 {
		t.Fatalf("turn not persisted")
	}
}

func TestChatPage_QueryRows(t *testing.T) {
	ex := &fakeExec{res: &query.Result{Columns: []string{"ProductName"}, Rows: [][]any{{"Organic Cotton T-Shirt"}}}}
	srv, _ := newTestServer(t, fakeLLM{content: "SELECT ProductName FROM Products"}, ex)
	body := postForm(srv.Handler(), "top product").Body.String()
	if !strings.Contains(body, assistant.HeaderRows) || !strings.Contains(body, "Organic Cotton T-Shirt") {
		t.Fatalf("rows not rendered: %s", body)
	}
	if ex.calls != 1 {
		t.Fatalf("want one query, got %d", ex.calls)
	}
}

func TestChatPage_QueryNoData(t *testing.T) {
	srv, _ := newTestServer(t, fakeLLM{content: "SELECT nope"}, &fakeExec{})
	body := postForm(srv.Handler(), "q").Body.String()
	if !strings.Contains(body, assistant.MsgNoData) {
		t.Fatalf("no-data message missing: %s", body)
	}
}

func TestChatPage_ModelError(t *testing.T) {
	srv, st := newTestServer(t, fakeLLM{err: errors.New("invalid token")}, &fakeExec{})
	rr := postForm(srv.Handler(), "q")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("want 502, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid token") {
		t.Fatalf("error not shown: %s", rr.Body.String())
	}
	if len(st.Load()) != 0 {
		t.Fatalf("nothing should be recorded")
	}
}

func TestHistoryPage(t *testing.T) {
	srv, st := newTestServer(t, fakeLLM{}, &fakeExec{})
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?load=1", nil))
	if !strings.Contains(rr.Body.String(), assistant.MsgNoHistory) {
		t.Fatalf("empty history message missing: %s", rr.Body.String())
	}

	r := "answer"
	_ = st.Save([]storage.ChatTurn{
		{Role: "user", Message: "first question", Response: &r, Timestamp: "2024-01-01T10:00:00Z"},
		{Role: "user", Message: "third question", Response: &r, Timestamp: "2024-01-03T10:00:00Z"},
		{Role: "user", Message: "second question", Response: nil, Timestamp: "2024-01-02T10:00:00Z"},
	})

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	if strings.Contains(rr.Body.String(), "first question") {
		t.Fatalf("history should load only on demand")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?load=1", nil))
	body := rr.Body.String()
	i3 := strings.Index(body, "third question")
	i2 := strings.Index(body, "second question")
	i1 := strings.Index(body, "first question")
	if i3 < 0 || i2 < 0 || i1 < 0 || !(i3 < i2 && i2 < i1) {
		t.Fatalf("history not newest first: %d %d %d", i3, i2, i1)
	}
}

func TestAPIChat(t *testing.T) {
	ex := &fakeExec{res: &query.Result{Columns: []string{"ProductName"}, Rows: [][]any{{"Yoga Mat"}}}}
	srv, _ := newTestServer(t, fakeLLM{content: "select ProductName from Products"}, ex)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q"}`))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "query" || len(resp.Rows) != 1 || resp.Rows[0][0] != "Yoga Mat" || resp.NoData {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAPIChat_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t, fakeLLM{}, &fakeExec{})
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", rr.Code)
	}
}

func TestAPIHistoryAndDigest(t *testing.T) {
	srv, st := newTestServer(t, fakeLLM{}, &fakeExec{})
	r1, r2 := "SELECT 1", "hello"
	_ = st.Save([]storage.ChatTurn{
		{Role: "user", Message: "a", Response: &r1, Timestamp: "2024-01-01T10:00:00Z"},
		{Role: "user", Message: "b", Response: &r2, Timestamp: "2024-01-02T10:00:00Z"},
	})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	var turns []storage.ChatTurn
	if err := json.Unmarshal(rr.Body.Bytes(), &turns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(turns) != 2 || turns[0].Message != "b" {
		t.Fatalf("unexpected history: %+v", turns)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/digest", nil))
	var d map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode digest: %v", err)
	}
	if d["total"] != float64(2) || d["queries"] != float64(1) || d["texts"] != float64(1) {
		t.Fatalf("unexpected digest: %v", d)
	}
}

func TestStatusAndNotFound(t *testing.T) {
	srv, _ := newTestServer(t, fakeLLM{}, &fakeExec{})
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected status response: %d %s", rr.Code, rr.Body.String())
	}
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rr.Code)
	}
}
