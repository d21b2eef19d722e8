// Package chat composes conversation history with the external text
// generator and feeds results back through the tree mutation protocol.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mgrote/treechat/internal/db"
	"github.com/mgrote/treechat/internal/models"
)

// ErrGenerationFailed indicates the external generation collaborator failed
// or timed out. Message writes committed before the failure are kept.
var ErrGenerationFailed = errors.New("generation failed")

// Store is the subset of conversation store operations the orchestrator needs.
type Store interface {
	GetConversation(ctx context.Context, id models.ConversationID) (*models.Conversation, error)
	AddMessage(ctx context.Context, id models.ConversationID, nm db.NewMessage) (*models.Message, error)
	EditMessage(ctx context.Context, id models.ConversationID, msgID models.MessageID, content string) (*models.Message, error)
}

// Generator is the external text-generation capability: text for a prompt,
// or failure.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service orchestrates converse and regenerate flows.
type Service struct {
	store     Store
	generator Generator
	window    int
}

// NewService creates a chat service. window is the number of recent messages
// included as generation context.
func NewService(store Store, generator Generator, window int) *Service {
	if window <= 0 {
		window = 5
	}
	return &Service{
		store:     store,
		generator: generator,
		window:    window,
	}
}

// Request carries the user-supplied portion of a converse or regenerate call.
type Request struct {
	Content  string
	Language string // optional target-language directive
	Persona  string // optional key into the persona instruction map
}

// Result holds the messages touched by a converse or regenerate call.
// On generation failure AIMessage is nil while UserMessage stays committed.
type Result struct {
	UserMessage *models.Message `json:"user_message"`
	AIMessage   *models.Message `json:"ai_message,omitempty"`
}

// Converse inserts the user message (anchored to the most recent ai message,
// if any), generates a reply from the recent active-path history, and inserts
// the reply anchored to the user message.
//
// If generation fails the already-committed user message is NOT rolled back:
// the error wraps ErrGenerationFailed and the result carries the user
// message, so callers can retry generation without duplicating it.
func (s *Service) Converse(ctx context.Context, convID models.ConversationID, req Request) (*Result, error) {
	conv, err := s.store.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}

	history := conv.HistoryWindow(s.window)

	nm := db.NewMessage{
		Sender:  models.SenderUser,
		Content: req.Content,
	}
	if last := conv.LastMessageBySender(models.SenderAI); last != nil {
		id := last.ID
		nm.ParentID = &id
	}

	userMsg, err := s.store.AddMessage(ctx, convID, nm)
	if err != nil {
		return nil, err
	}

	aiMsg, err := s.reply(ctx, convID, history, req, userMsg.ID)
	if err != nil {
		return &Result{UserMessage: userMsg}, err
	}

	return &Result{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

// Regenerate appends a new version to the message and generates a fresh
// reply anchored to that new version. Replies made against the old version
// are not deleted; they stay attached to the superseded version.
func (s *Service) Regenerate(ctx context.Context, convID models.ConversationID, msgID models.MessageID, req Request) (*Result, error) {
	edited, err := s.store.EditMessage(ctx, convID, msgID, req.Content)
	if err != nil {
		return nil, err
	}

	conv, err := s.store.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	history := conv.HistoryWindow(s.window)

	aiMsg, err := s.reply(ctx, convID, history, req, edited.ID)
	if err != nil {
		return &Result{UserMessage: edited}, err
	}

	return &Result{UserMessage: edited, AIMessage: aiMsg}, nil
}

// reply generates text for the prompt and appends it as an ai message under
// parentID.
func (s *Service) reply(ctx context.Context, convID models.ConversationID, history []string, req Request, parentID models.MessageID) (*models.Message, error) {
	prompt := buildPrompt(history, req)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("generation failed, user message kept", "conversation", convID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return s.store.AddMessage(ctx, convID, db.NewMessage{
		Sender:   models.SenderAI,
		Content:  text,
		ParentID: &parentID,
	})
}
