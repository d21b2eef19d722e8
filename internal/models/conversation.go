// Package models defines the versioned, branching conversation document and
// the pure helpers that operate on it.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ValidSender reports whether s is a known sender value.
func ValidSender(s Sender) bool {
	return s == SenderUser || s == SenderAI
}

// Version is one content revision of a message. Versions are append-only:
// they are never deleted or mutated in place.
type Version struct {
	ID        VersionID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// ChildMessages records which messages were created as replies to this
	// specific version: child message id -> the child's version at link time.
	ChildMessages map[MessageID]VersionID `json:"child_messages"`
}

// Message is a node in the conversation tree. Tree structure is encoded via
// parent pointers, not nesting; the message list stays in creation order.
type Message struct {
	ID       MessageID  `json:"id"`
	ParentID *MessageID `json:"parent_id,omitempty"`

	// ParentVersion is a snapshot dependency: the parent's version that was
	// current when this message was created. Later edits to the parent do
	// not move it.
	ParentVersion  *VersionID `json:"parent_version,omitempty"`
	Sender         Sender     `json:"sender"`
	CurrentVersion VersionID  `json:"current_version"`
	Versions       []Version  `json:"versions"`
}

// Conversation is the canonical document: ordered messages with embedded
// versions, owned exclusively by this conversation.
type Conversation struct {
	ID        surrealmodels.RecordID `json:"id"`
	Title     string                 `json:"title"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Messages  []Message              `json:"messages"`
}

// Version returns the version with the given id, or nil.
func (m *Message) Version(id VersionID) *Version {
	for i := range m.Versions {
		if m.Versions[i].ID == id {
			return &m.Versions[i]
		}
	}
	return nil
}

// ActiveVersion returns the version CurrentVersion points at, or nil if the
// pointer is dangling (a data-corruption fault).
func (m *Message) ActiveVersion() *Version {
	return m.Version(m.CurrentVersion)
}

// NextVersionID computes the label for the next appended version.
func (m *Message) NextVersionID() VersionID {
	return FormatVersionID(len(m.Versions) + 1)
}

// FindMessage returns the message with the given id, or nil.
func (c *Conversation) FindMessage(id MessageID) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}
