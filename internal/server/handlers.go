package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mgrote/treechat/internal/chat"
	"github.com/mgrote/treechat/internal/db"
	"github.com/mgrote/treechat/internal/models"
)

type createConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

type updateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

type addMessageRequest struct {
	Content  string `json:"content" binding:"required"`
	Sender   string `json:"sender"`
	ParentID string `json:"parent_id"`
	Generate bool   `json:"generate"`
	Language string `json:"language"`
	Context  string `json:"context"`
}

type editMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	Regenerate bool   `json:"regenerate"`
	Language   string `json:"language"`
	Context    string `json:"context"`
}

func (s *Server) createConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	conv, err := s.store.CreateConversation(c.Request.Context(), req.Title)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (s *Server) listConversations(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	convs, err := s.store.ListConversations(c.Request.Context(), offset, limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs, "offset": offset, "limit": limit})
}

func (s *Server) getConversation(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}

	conv, err := s.store.GetConversation(c.Request.Context(), convID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *Server) updateConversation(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}

	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	conv, err := s.store.UpdateConversationTitle(c.Request.Context(), convID, req.Title)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *Server) deleteConversation(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteConversation(c.Request.Context(), convID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("conversation %s not found", convID)})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addMessage(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}

	var req addMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if req.Generate {
		result, err := s.chat.Converse(c.Request.Context(), convID, chat.Request{
			Content:  req.Content,
			Language: req.Language,
			Persona:  req.Context,
		})
		if err != nil {
			s.renderChatError(c, result, err)
			return
		}
		c.JSON(http.StatusCreated, result)
		return
	}

	nm := db.NewMessage{
		Sender:  models.SenderUser,
		Content: req.Content,
	}
	if req.Sender != "" {
		nm.Sender = models.Sender(req.Sender)
	}
	if req.ParentID != "" {
		parentID, err := models.ParseMessageID(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		nm.ParentID = &parentID
	}

	msg, err := s.store.AddMessage(c.Request.Context(), convID, nm)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *Server) editMessage(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}
	msgID, ok := s.messageID(c)
	if !ok {
		return
	}

	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if req.Regenerate {
		result, err := s.chat.Regenerate(c.Request.Context(), convID, msgID, chat.Request{
			Content:  req.Content,
			Language: req.Language,
			Persona:  req.Context,
		})
		if err != nil {
			s.renderChatError(c, result, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	msg, err := s.store.EditMessage(c.Request.Context(), convID, msgID, req.Content)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (s *Server) switchVersion(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}
	msgID, ok := s.messageID(c)
	if !ok {
		return
	}
	versionID, err := models.ParseVersionID(c.Param("versionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := s.store.SetCurrentVersion(c.Request.Context(), convID, msgID, versionID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *Server) deleteMessage(c *gin.Context) {
	convID, ok := s.conversationID(c)
	if !ok {
		return
	}
	msgID, ok := s.messageID(c)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteMessage(c.Request.Context(), convID, msgID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("message %s not found", msgID)})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	if s.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// conversationID parses and validates the :id path parameter, writing the
// error response itself on failure.
func (s *Server) conversationID(c *gin.Context) (models.ConversationID, bool) {
	id, err := models.ParseConversationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

func (s *Server) messageID(c *gin.Context) (models.MessageID, bool) {
	id, err := models.ParseMessageID(c.Param("messageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

// renderError maps store and orchestrator errors to HTTP status codes.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrWriteConflict), errors.Is(err, db.ErrTransactionConflict):
		status = http.StatusConflict
	case errors.Is(err, chat.ErrGenerationFailed):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// renderChatError is renderError plus the partial-success contract: when
// generation fails after the user message was committed, the response body
// carries that message so the caller can retry generation alone.
func (s *Server) renderChatError(c *gin.Context, result *chat.Result, err error) {
	if errors.Is(err, chat.ErrGenerationFailed) && result != nil && result.UserMessage != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"user_message": result.UserMessage,
		})
		return
	}
	s.renderError(c, err)
}
