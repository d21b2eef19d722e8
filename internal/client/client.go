// Package client provides a REST client for the treechat server, used by the
// CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/mgrote/treechat/internal/chat"
	"github.com/mgrote/treechat/internal/models"
)

// Client talks to the treechat REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses TREECHAT_SERVER_URL env var or defaults to
// localhost:8686. The API key comes from TREECHAT_API_KEY.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TREECHAT_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8686"
	}

	timeout := 2 * time.Minute // generation can be slow
	if t := os.Getenv("TREECHAT_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("TREECHAT_API_KEY"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError is the error payload the server renders.
type apiError struct {
	Error string `json:"error"`
}

// do executes a request and decodes the JSON response into result (if
// non-nil). Non-2xx responses are returned as errors carrying the server's
// error message.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error != "" {
			return fmt.Errorf("server error (%s): %s", resp.Status, ae.Error)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// CreateConversation creates a new conversation.
func (c *Client) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
	var conv models.Conversation
	err := c.do(ctx, http.MethodPost, "/api/v1/conversations", map[string]string{"title": title}, &conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// listResponse is the paged list payload.
type listResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	Offset        int                   `json:"offset"`
	Limit         int                   `json:"limit"`
}

// ListConversations fetches a page of conversations.
func (c *Client) ListConversations(ctx context.Context, offset, limit int) ([]models.Conversation, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var page listResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/conversations?"+q.Encode(), nil, &page)
	if err != nil {
		return nil, err
	}
	return page.Conversations, nil
}

// GetConversation fetches a full conversation document.
func (c *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := c.do(ctx, http.MethodGet, "/api/v1/conversations/"+url.PathEscape(id), nil, &conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// UpdateConversationTitle renames a conversation.
func (c *Client) UpdateConversationTitle(ctx context.Context, id, title string) (*models.Conversation, error) {
	var conv models.Conversation
	err := c.do(ctx, http.MethodPatch, "/api/v1/conversations/"+url.PathEscape(id), map[string]string{"title": title}, &conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation removes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/conversations/"+url.PathEscape(id), nil, nil)
}

// SendMessage sends a user message and requests a generated reply.
func (c *Client) SendMessage(ctx context.Context, convID, content, language, persona string) (*chat.Result, error) {
	body := map[string]any{
		"content":  content,
		"generate": true,
	}
	if language != "" {
		body["language"] = language
	}
	if persona != "" {
		body["context"] = persona
	}

	var result chat.Result
	err := c.do(ctx, http.MethodPost, "/api/v1/conversations/"+url.PathEscape(convID)+"/messages", body, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// EditMessage edits a message and requests a regenerated reply.
func (c *Client) EditMessage(ctx context.Context, convID, msgID, content string, regenerate bool) (*chat.Result, error) {
	body := map[string]any{
		"content":    content,
		"regenerate": regenerate,
	}

	if !regenerate {
		var msg models.Message
		err := c.do(ctx, http.MethodPut, messagePath(convID, msgID), body, &msg)
		if err != nil {
			return nil, err
		}
		return &chat.Result{UserMessage: &msg}, nil
	}

	var result chat.Result
	err := c.do(ctx, http.MethodPut, messagePath(convID, msgID), body, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SwitchVersion changes a message's active version.
func (c *Client) SwitchVersion(ctx context.Context, convID, msgID, versionID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := c.do(ctx, http.MethodPut, messagePath(convID, msgID)+"/versions/"+url.PathEscape(versionID), nil, &conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteMessage removes a message and its descendants.
func (c *Client) DeleteMessage(ctx context.Context, convID, msgID string) error {
	return c.do(ctx, http.MethodDelete, messagePath(convID, msgID), nil, nil)
}

func messagePath(convID, msgID string) string {
	return "/api/v1/conversations/" + url.PathEscape(convID) + "/messages/" + url.PathEscape(msgID)
}
