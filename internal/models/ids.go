package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ConversationID is the string form of a conversation record id (a uuid).
type ConversationID string

// NewConversationID generates a fresh conversation id.
func NewConversationID() ConversationID {
	return ConversationID(uuid.NewString())
}

// ParseConversationID validates a raw conversation id from the API boundary.
func ParseConversationID(s string) (ConversationID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid conversation id %q: %w", s, err)
	}
	return ConversationID(s), nil
}

func (id ConversationID) String() string {
	return string(id)
}

// MessageID identifies a message within a conversation (a uuid).
type MessageID string

// NewMessageID generates a fresh message id.
func NewMessageID() MessageID {
	return MessageID(uuid.NewString())
}

// ParseMessageID validates a raw message id from the API boundary.
func ParseMessageID(s string) (MessageID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid message id %q: %w", s, err)
	}
	return MessageID(s), nil
}

func (id MessageID) String() string {
	return string(id)
}

// VersionID labels a content version within a message: "v1", "v2", ...
// Labels are dense, strictly increasing by creation order and never reused.
type VersionID string

// FormatVersionID builds the label for version number n.
func FormatVersionID(n int) VersionID {
	return VersionID("v" + strconv.Itoa(n))
}

// ParseVersionID validates a raw version label from the API boundary.
func ParseVersionID(s string) (VersionID, error) {
	if !strings.HasPrefix(s, "v") {
		return "", fmt.Errorf("invalid version id %q: missing v prefix", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return "", fmt.Errorf("invalid version id %q", s)
	}
	return VersionID(s), nil
}

// Number returns the numeric part of the label, or 0 if malformed.
func (id VersionID) Number() int {
	if !strings.HasPrefix(string(id), "v") {
		return 0
	}
	n, err := strconv.Atoi(string(id)[1:])
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func (id VersionID) String() string {
	return string(id)
}
