package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"retail-assistant/internal/analytics"
	"retail-assistant/internal/assistant"
	"retail-assistant/internal/history"
	"retail-assistant/internal/query"
	"retail-assistant/internal/storage"
)

const sessionCookie = "session_id"

// Server serves the Chat and Search History pages plus a small JSON API.
type Server struct {
	svc       *assistant.Service
	store     storage.Store
	sessions  *history.Manager
	server    *http.Server
	port      int
	startTime time.Time
}

func NewServer(svc *assistant.Service, store storage.Store, sessions *history.Manager, port int) *Server {
	return &Server{
		svc:       svc,
		store:     store,
		sessions:  sessions,
		port:      port,
		startTime: time.Now(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/chat", s.handleAPIChat)
	mux.HandleFunc("/api/history", s.handleAPIHistory)
	mux.HandleFunc("/api/digest", s.handleAPIDigest)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/", s.handleChat)
	return mux
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	log.Printf("🌐 Starting assistant web UI on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// session returns the caller's session, issuing a cookie on first visit.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *history.Session {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return s.sessions.Get(c.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	return s.sessions.Get(id)
}

type pageData struct {
	Page     string
	Question string
	Error    string

	Answered  bool
	IsQuery   bool
	NoData    bool
	Rows      []string
	ReplyText string

	Loaded bool
	Turns  []historyEntry

	RowsHeader    string
	TextHeader    string
	HistoryHeader string
	NoDataText    string
	NoHistoryText string
}

type historyEntry struct {
	Timestamp string
	Message   string
	Response  string
}

func newPage(page string) pageData {
	return pageData{
		Page:          page,
		RowsHeader:    assistant.HeaderRows,
		TextHeader:    assistant.HeaderText,
		HistoryHeader: assistant.HeaderHistory,
		NoDataText:    assistant.MsgNoData,
		NoHistoryText: assistant.MsgNoHistory,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		log.Printf("failed to render page: %v", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := newPage("chat")
	switch r.Method {
	case http.MethodGet:
		s.session(w, r)
		s.render(w, http.StatusOK, data)
	case http.MethodPost:
		sess := s.session(w, r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		data.Question = r.PostFormValue("question")
		out, err := s.svc.Ask(r.Context(), sess, data.Question)
		if err != nil {
			log.Printf("chat turn failed: %v", err)
			data.Error = err.Error()
			s.render(w, http.StatusBadGateway, data)
			return
		}
		data.Answered = true
		data.IsQuery = out.Reply.IsQuery()
		data.NoData = out.NoData
		data.ReplyText = out.Reply.Payload
		if out.Result != nil {
			for _, row := range out.Result.Rows {
				data.Rows = append(data.Rows, query.FormatRow(row))
			}
		}
		s.render(w, http.StatusOK, data)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data := newPage("history")
	if r.URL.Query().Get("load") != "" {
		data.Loaded = true
		for _, t := range assistant.History(s.store) {
			e := historyEntry{Timestamp: t.Timestamp, Message: t.Message}
			if t.Response != nil {
				e.Response = *t.Response
			}
			data.Turns = append(data.Turns, e)
		}
	}
	s.render(w, http.StatusOK, data)
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text"`
	Columns []string `json:"columns,omitempty"`
	Rows    [][]any  `json:"rows,omitempty"`
	NoData  bool     `json:"no_data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) handleAPIChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON request: "+err.Error(), http.StatusBadRequest)
		return
	}
	out, err := s.svc.Ask(r.Context(), s.session(w, r), req.Question)
	if err != nil {
		log.Printf("chat turn failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	resp := chatResponse{Kind: string(out.Reply.Kind), Text: out.Reply.Payload, NoData: out.NoData}
	if out.Result != nil {
		resp.Columns = out.Result.Columns
		resp.Rows = out.Result.Rows
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, assistant.History(s.store))
}

func (s *Server) handleAPIDigest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(s.store.Load(), time.Time{}))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}
