package services

import (
	"context"
	"strings"
	"sync"

	"stridecart/internal/domain"
	"stridecart/internal/metrics"
)

const (
	chatGreeting = "Hi! I'm the StrideCart assistant. Ask me about sizes, styles or your order."
	chatApology  = "I apologize, but I'm having trouble connecting right now. Please try again in a moment."
)

// ChatService keeps one visitor's conversation with the assistant. The
// transcript only grows; replies land in the order requests were made.
type ChatService struct {
	API     API
	Metrics *metrics.Metrics

	mu       sync.Mutex
	messages []domain.ChatMessage
	pending  int
}

func NewChatService(api API, m *metrics.Metrics) *ChatService {
	return &ChatService{
		API:      api,
		Metrics:  m,
		messages: []domain.ChatMessage{{Role: "assistant", Content: chatGreeting}},
	}
}

// Send appends text as the visitor's message and then the assistant's reply.
// A failed exchange appends the error text, or an apology, as the reply.
// Blank input is ignored.
func (s *ChatService) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.mu.Lock()
	s.messages = append(s.messages, domain.ChatMessage{Role: "user", Content: text})
	s.pending++
	s.mu.Unlock()

	var reply string
	err := mutate(ctx, s.Metrics, "chat.send", chatApology, func(ctx context.Context) error {
		var err error
		reply, err = s.API.SendChat(ctx, text)
		return err
	})
	if err != nil {
		reply = err.Error()
	}

	s.mu.Lock()
	s.messages = append(s.messages, domain.ChatMessage{Role: "assistant", Content: reply})
	s.pending--
	s.mu.Unlock()
	return err
}

// Transcript returns a copy of the conversation and whether a reply is
// still outstanding.
func (s *ChatService) Transcript() ([]domain.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out, s.pending > 0
}

