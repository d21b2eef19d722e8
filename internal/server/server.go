// Package server provides the REST transport over the conversation store and
// chat orchestrator. It is thin glue: validation at the boundary, error
// mapping, and nothing else.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mgrote/treechat/internal/chat"
	"github.com/mgrote/treechat/internal/db"
	"github.com/mgrote/treechat/internal/metrics"
	"github.com/mgrote/treechat/internal/models"
)

// ConversationStore is the store surface the handlers call. *db.Client
// implements it.
type ConversationStore interface {
	CreateConversation(ctx context.Context, title string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id models.ConversationID) (*models.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id models.ConversationID, title string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id models.ConversationID) (bool, error)
	ListConversations(ctx context.Context, offset, limit int) ([]models.Conversation, error)
	AddMessage(ctx context.Context, id models.ConversationID, nm db.NewMessage) (*models.Message, error)
	EditMessage(ctx context.Context, id models.ConversationID, msgID models.MessageID, content string) (*models.Message, error)
	SetCurrentVersion(ctx context.Context, id models.ConversationID, msgID models.MessageID, versionID models.VersionID) (*models.Conversation, error)
	DeleteMessage(ctx context.Context, id models.ConversationID, msgID models.MessageID) (bool, error)
}

// Orchestrator is the chat surface the handlers call. *chat.Service
// implements it.
type Orchestrator interface {
	Converse(ctx context.Context, convID models.ConversationID, req chat.Request) (*chat.Result, error)
	Regenerate(ctx context.Context, convID models.ConversationID, msgID models.MessageID, req chat.Request) (*chat.Result, error)
}

// Server holds the HTTP router and its collaborators.
type Server struct {
	router  *gin.Engine
	store   ConversationStore
	chat    Orchestrator
	metrics *metrics.Collector
	apiKey  string
	logger  *slog.Logger
}

// New builds the server and its routes. apiKey guards every /api/v1 route;
// an empty key disables the check (local development).
func New(store ConversationStore, orchestrator Orchestrator, mc *metrics.Collector, apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:   store,
		chat:    orchestrator,
		metrics: mc,
		apiKey:  apiKey,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api/v1", APIKeyAuth(apiKey))
	{
		api.POST("/conversations", s.createConversation)
		api.GET("/conversations", s.listConversations)
		api.GET("/conversations/:id", s.getConversation)
		api.PATCH("/conversations/:id", s.updateConversation)
		api.DELETE("/conversations/:id", s.deleteConversation)

		api.POST("/conversations/:id/messages", s.addMessage)
		api.PUT("/conversations/:id/messages/:messageID", s.editMessage)
		api.PUT("/conversations/:id/messages/:messageID/versions/:versionID", s.switchVersion)
		api.DELETE("/conversations/:id/messages/:messageID", s.deleteMessage)

		api.GET("/stats", s.stats)
	}

	s.router = router
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
