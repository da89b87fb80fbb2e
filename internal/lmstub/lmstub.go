// Package lmstub runs an in-process OpenAI-compatible server shaped like the
// LM Studio developer server. Lifecycle and client tests point commitgen at
// it instead of a real local model runtime.
package lmstub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Model mirrors the subset of the LM Studio /models entry commitgen looks at.
type Model struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	State  string `json:"state,omitempty"`
}

// ChatMessage is one entry of a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest captures what a client posted to /chat/completions.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

// Server is the stub. Zero value is not usable, call New.
type Server struct {
	ts *httptest.Server

	mu         sync.Mutex
	ready      bool
	failProbes int
	probeCount int
	completion string
	models     []Model
	lastChat   *ChatRequest
}

// New starts a stub that is immediately ready and answers completions with a
// fixed message.
func New() *Server {
	s := &Server{
		ready:      true,
		completion: "chore: update generated files",
		models:     []Model{{ID: "qwen2.5-coder-7b-instruct", Object: "model", State: "loaded"}},
	}

	r := chi.NewRouter()
	// The real dev server answers browser clients, keep the stub faithful.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Get("/models", s.handleModels)
	r.Post("/chat/completions", s.handleChat)

	s.ts = httptest.NewServer(r)
	return s
}

// Close shuts the stub down.
func (s *Server) Close() { s.ts.Close() }

// URL is the base URL clients should use (no trailing slash, no /v1 prefix;
// the stub serves the endpoints at the root like a custom base_url would).
func (s *Server) URL() string { return s.ts.URL }

// SetReady flips whether /models answers 200.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// FailProbes makes the next n /models calls answer 503 before turning ready.
func (s *Server) FailProbes(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failProbes = n
	s.ready = true
}

// SetCompletion sets the message /chat/completions returns.
func (s *Server) SetCompletion(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion = msg
}

// ProbeCount returns how many times /models was hit.
func (s *Server) ProbeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probeCount
}

// LastChatRequest returns the most recent completion request, if any.
func (s *Server) LastChatRequest() (ChatRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastChat == nil {
		return ChatRequest{}, false
	}
	return *s.lastChat, true
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.probeCount++
	ready := s.ready
	if s.failProbes > 0 {
		s.failProbes--
		ready = false
	}
	models := append([]Model(nil), s.models...)
	s.mu.Unlock()

	if !ready {
		http.Error(w, "loading", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"data":   models,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.lastChat = &req
	content := s.completion
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-stub",
		"object": "chat.completion",
		"model":  req.Model,
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	})
}
