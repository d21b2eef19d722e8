package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/mgrote/treechat/internal/metrics"
	"github.com/mgrote/treechat/internal/models"
)

// Content and title limits, rejected before any write.
const (
	MaxTitleLen   = 255
	MaxContentLen = 1000
)

// NewMessage is the payload for appending a message to a conversation.
type NewMessage struct {
	Sender  models.Sender
	Content string

	// ParentID, if set, must resolve to a message in the same conversation.
	// The parent's current version at insertion time becomes the new
	// message's parent_version; an unresolvable parent is rejected.
	ParentID *models.MessageID
}

// CreateConversation inserts a new conversation document with an empty
// message list.
func (c *Client) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	id := models.NewConversationID()
	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		CREATE type::record("conversation", $id) CONTENT {
			title: $title,
			messages: [],
			created_at: time::now(),
			updated_at: time::now()
		}
	`, map[string]any{"id": id.String(), "title": title})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("create conversation: %w", ErrWriteConflict)
	}
	return &convs[0], nil
}

// GetConversation retrieves the full conversation document.
func (c *Client) GetConversation(ctx context.Context, id models.ConversationID) (*models.Conversation, error) {
	convs, err := c.queryConversations(ctx, metrics.OpDBQuery, `
		SELECT * FROM type::record("conversation", $id)
	`, map[string]any{"id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return &convs[0], nil
}

// UpdateConversationTitle applies a partial update to the conversation and
// bumps updated_at.
func (c *Client) UpdateConversationTitle(ctx context.Context, id models.ConversationID, title string) (*models.Conversation, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id.String())
	defer unlock()

	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		UPDATE type::record("conversation", $id) SET
			title = $title,
			updated_at = time::now()
	`, map[string]any{"id": id.String(), "title": title})
	if err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return &convs[0], nil
}

// DeleteConversation removes the conversation and all contained messages.
// Returns whether anything was deleted; repeated calls return false.
func (c *Client) DeleteConversation(ctx context.Context, id models.ConversationID) (bool, error) {
	unlock := c.locks.Lock(id.String())
	defer unlock()

	return c.deleteConversation(ctx, id)
}

func (c *Client) deleteConversation(ctx context.Context, id models.ConversationID) (bool, error) {
	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		DELETE type::record("conversation", $id) RETURN BEFORE
	`, map[string]any{"id": id.String()})
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	return len(convs) > 0, nil
}

// ListConversations returns a page of conversations ordered by most recent
// activity.
func (c *Client) ListConversations(ctx context.Context, offset, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	convs, err := c.queryConversations(ctx, metrics.OpDBQuery, `
		SELECT * FROM conversation ORDER BY updated_at DESC LIMIT $limit START $offset
	`, map[string]any{"limit": limit, "offset": offset})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// AddMessage appends a message to the conversation with a single initial
// version ("v1"). If a parent is given, the new message is stamped with the
// parent's current version and registered in that exact version's
// child_messages map.
func (c *Client) AddMessage(ctx context.Context, convID models.ConversationID, nm NewMessage) (*models.Message, error) {
	if err := validateContent(nm.Content); err != nil {
		return nil, err
	}
	if !models.ValidSender(nm.Sender) {
		return nil, fmt.Errorf("unknown sender %q: %w", nm.Sender, ErrValidation)
	}

	unlock := c.locks.Lock(convID.String())
	defer unlock()

	conv, err := c.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:             models.NewMessageID(),
		Sender:         nm.Sender,
		CurrentVersion: models.FormatVersionID(1),
		Versions: []models.Version{{
			ID:            models.FormatVersionID(1),
			Content:       nm.Content,
			CreatedAt:     time.Now().UTC(),
			ChildMessages: map[models.MessageID]models.VersionID{},
		}},
	}

	var parent *models.Message
	if nm.ParentID != nil {
		parent = conv.FindMessage(*nm.ParentID)
		if parent == nil {
			return nil, fmt.Errorf("parent message %s not in conversation: %w", *nm.ParentID, ErrValidation)
		}
		msg.ParentID = nm.ParentID
		pv := parent.CurrentVersion
		msg.ParentVersion = &pv
	}

	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		UPDATE type::record("conversation", $id) SET
			messages += $msg,
			updated_at = time::now()
	`, map[string]any{"id": convID.String(), "msg": msg})
	if err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("add message to %s: %w", convID, ErrWriteConflict)
	}

	if parent != nil {
		// Register the child under the exact version it replied to, not
		// merely the parent message.
		if err := c.linkChild(ctx, convID, parent, *msg.ParentVersion, msg.ID, msg.CurrentVersion); err != nil {
			return nil, err
		}
	}

	return &msg, nil
}

// linkChild appends an entry to the parent version's child_messages map.
func (c *Client) linkChild(ctx context.Context, convID models.ConversationID, parent *models.Message, parentVersion models.VersionID, childID models.MessageID, childVersion models.VersionID) error {
	ver := parent.Version(parentVersion)
	if ver == nil {
		return fmt.Errorf("parent version %s not in message %s: %w", parentVersion, parent.ID, ErrNotFound)
	}

	children := make(map[models.MessageID]models.VersionID, len(ver.ChildMessages)+1)
	for k, v := range ver.ChildMessages {
		children[k] = v
	}
	children[childID] = childVersion

	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		UPDATE type::record("conversation", $id) SET
			messages[WHERE id = $parent].versions[WHERE id = $version].child_messages = $children
	`, map[string]any{
		"id":       convID.String(),
		"parent":   parent.ID.String(),
		"version":  parentVersion.String(),
		"children": children,
	})
	if err != nil {
		return fmt.Errorf("link child message: %w", err)
	}
	if len(convs) == 0 {
		return fmt.Errorf("link child message in %s: %w", convID, ErrWriteConflict)
	}
	return nil
}

// EditMessage appends a new version to the message and makes it current.
// Existing versions and their child_messages are never touched: branches
// made against older versions stay reachable.
func (c *Client) EditMessage(ctx context.Context, convID models.ConversationID, msgID models.MessageID, content string) (*models.Message, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(convID.String())
	defer unlock()

	conv, err := c.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	msg := conv.FindMessage(msgID)
	if msg == nil {
		return nil, fmt.Errorf("message %s: %w", msgID, ErrNotFound)
	}

	version := models.Version{
		ID:            msg.NextVersionID(),
		Content:       content,
		CreatedAt:     time.Now().UTC(),
		ChildMessages: map[models.MessageID]models.VersionID{},
	}

	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		UPDATE type::record("conversation", $id) SET
			messages[WHERE id = $msg].versions += $version,
			messages[WHERE id = $msg].current_version = $current,
			updated_at = time::now()
	`, map[string]any{
		"id":      convID.String(),
		"msg":     msgID.String(),
		"version": version,
		"current": version.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("edit message: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("edit message %s: %w", msgID, ErrWriteConflict)
	}

	msg.Versions = append(msg.Versions, version)
	msg.CurrentVersion = version.ID
	return msg, nil
}

// SetCurrentVersion switches the message's active version pointer. The
// version id must be a member of the message's versions; the pointer never
// references a non-existent version.
func (c *Client) SetCurrentVersion(ctx context.Context, convID models.ConversationID, msgID models.MessageID, versionID models.VersionID) (*models.Conversation, error) {
	unlock := c.locks.Lock(convID.String())
	defer unlock()

	conv, err := c.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	msg := conv.FindMessage(msgID)
	if msg == nil {
		return nil, fmt.Errorf("message %s: %w", msgID, ErrNotFound)
	}
	if msg.Version(versionID) == nil {
		return nil, fmt.Errorf("version %s of message %s: %w", versionID, msgID, ErrNotFound)
	}

	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, `
		UPDATE type::record("conversation", $id) SET
			messages[WHERE id = $msg].current_version = $current,
			updated_at = time::now()
	`, map[string]any{
		"id":      convID.String(),
		"msg":     msgID.String(),
		"current": versionID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("set current version: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("set current version on %s: %w", msgID, ErrWriteConflict)
	}
	return &convs[0], nil
}

// DeleteMessage removes the message and its full descendant set (transitive
// closure over parent_id). If that set covers the whole conversation, the
// conversation itself is deleted instead of leaving an empty shell.
// Returns whether a deletion occurred.
func (c *Client) DeleteMessage(ctx context.Context, convID models.ConversationID, msgID models.MessageID) (bool, error) {
	unlock := c.locks.Lock(convID.String())
	defer unlock()

	conv, err := c.GetConversation(ctx, convID)
	if err != nil {
		return false, err
	}
	target := conv.FindMessage(msgID)
	if target == nil {
		return false, fmt.Errorf("message %s: %w", msgID, ErrNotFound)
	}

	doomed := conv.DescendantSet(msgID)
	if len(doomed) == len(conv.Messages) {
		return c.deleteConversation(ctx, convID)
	}

	ids := make([]string, 0, len(doomed))
	for id := range doomed {
		ids = append(ids, id.String())
	}

	vars := map[string]any{
		"id":  convID.String(),
		"ids": ids,
	}

	// Pull the doomed messages, then repair the surviving parent's forward
	// reference. Clause order matters: both run inside one atomic UPDATE.
	sql := `
		UPDATE type::record("conversation", $id) SET
			messages = messages[WHERE id NOTINSIDE $ids],
			updated_at = time::now()
	`
	if target.ParentID != nil && target.ParentVersion != nil {
		if _, gone := doomed[*target.ParentID]; !gone {
			if parent := conv.FindMessage(*target.ParentID); parent != nil {
				if ver := parent.Version(*target.ParentVersion); ver != nil {
					children := make(map[models.MessageID]models.VersionID, len(ver.ChildMessages))
					for k, v := range ver.ChildMessages {
						if k != msgID {
							children[k] = v
						}
					}
					sql = `
						UPDATE type::record("conversation", $id) SET
							messages = messages[WHERE id NOTINSIDE $ids],
							messages[WHERE id = $parent].versions[WHERE id = $version].child_messages = $children,
							updated_at = time::now()
					`
					vars["parent"] = target.ParentID.String()
					vars["version"] = target.ParentVersion.String()
					vars["children"] = children
				}
			}
		}
	}

	convs, err := c.queryConversations(ctx, metrics.OpDBMutation, sql, vars)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	if len(convs) == 0 {
		return false, fmt.Errorf("delete message %s: %w", msgID, ErrWriteConflict)
	}
	return true, nil
}

// queryConversations runs a SurrealQL statement and decodes conversation
// records from the first result set.
func (c *Client) queryConversations(ctx context.Context, op string, sql string, vars map[string]any) ([]models.Conversation, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, sql, vars)
	c.record(op, time.Since(start))
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty: %w", ErrValidation)
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title exceeds %d bytes: %w", MaxTitleLen, ErrValidation)
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content must not be empty: %w", ErrValidation)
	}
	if len(content) > MaxContentLen {
		return fmt.Errorf("content exceeds %d bytes: %w", MaxContentLen, ErrValidation)
	}
	return nil
}
