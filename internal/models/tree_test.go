package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMessage constructs a message with a single version holding content.
func buildMessage(sender Sender, content string) Message {
	return Message{
		ID:             NewMessageID(),
		Sender:         sender,
		CurrentVersion: FormatVersionID(1),
		Versions: []Version{{
			ID:            FormatVersionID(1),
			Content:       content,
			CreatedAt:     time.Now().UTC(),
			ChildMessages: map[MessageID]VersionID{},
		}},
	}
}

// linkToParent wires child under the parent's current version, mirroring what
// the store does on insert.
func linkToParent(parent *Message, child *Message) {
	pid := parent.ID
	pv := parent.CurrentVersion
	child.ParentID = &pid
	child.ParentVersion = &pv
	parent.Version(pv).ChildMessages[child.ID] = child.CurrentVersion
}

func TestDescendantSet(t *testing.T) {
	root := buildMessage(SenderUser, "root")
	reply := buildMessage(SenderAI, "reply")
	followup := buildMessage(SenderUser, "followup")
	sibling := buildMessage(SenderAI, "sibling")
	linkToParent(&root, &reply)
	linkToParent(&reply, &followup)
	linkToParent(&root, &sibling)

	conv := Conversation{Messages: []Message{root, reply, followup, sibling}}

	set := conv.DescendantSet(reply.ID)
	assert.Len(t, set, 2)
	assert.Contains(t, set, reply.ID)
	assert.Contains(t, set, followup.ID)
	assert.NotContains(t, set, sibling.ID)

	whole := conv.DescendantSet(root.ID)
	assert.Len(t, whole, 4)
}

func TestDescendantSetCycleTerminates(t *testing.T) {
	// Corrupted parent links forming a cycle must not loop forever.
	a := buildMessage(SenderUser, "a")
	b := buildMessage(SenderAI, "b")
	aID, bID := a.ID, b.ID
	a.ParentID = &bID
	b.ParentID = &aID

	conv := Conversation{Messages: []Message{a, b}}

	set := conv.DescendantSet(a.ID)
	assert.Len(t, set, 2)
}

func TestLastMessageBySender(t *testing.T) {
	m1 := buildMessage(SenderUser, "first user")
	m2 := buildMessage(SenderAI, "first ai")
	m3 := buildMessage(SenderUser, "second user")

	conv := Conversation{Messages: []Message{m1, m2, m3}}

	last := conv.LastMessageBySender(SenderUser)
	require.NotNil(t, last)
	assert.Equal(t, m3.ID, last.ID)

	lastAI := conv.LastMessageBySender(SenderAI)
	require.NotNil(t, lastAI)
	assert.Equal(t, m2.ID, lastAI.ID)

	empty := Conversation{}
	assert.Nil(t, empty.LastMessageBySender(SenderAI))
}

func TestHistoryWindow(t *testing.T) {
	conv := Conversation{Messages: []Message{
		buildMessage(SenderUser, "one"),
		buildMessage(SenderAI, "two"),
		buildMessage(SenderUser, "three"),
	}}

	assert.Equal(t, []string{"two", "three"}, conv.HistoryWindow(2))
	assert.Equal(t, []string{"one", "two", "three"}, conv.HistoryWindow(10))

	// History follows the active version, not the newest one.
	conv.Messages[2].Versions = append(conv.Messages[2].Versions, Version{
		ID:            FormatVersionID(2),
		Content:       "three, revised",
		ChildMessages: map[MessageID]VersionID{},
	})
	conv.Messages[2].CurrentVersion = FormatVersionID(2)
	assert.Equal(t, []string{"two", "three, revised"}, conv.HistoryWindow(2))

	conv.Messages[2].CurrentVersion = FormatVersionID(1)
	assert.Equal(t, []string{"two", "three"}, conv.HistoryWindow(2))

	// Dangling pointers are skipped rather than rendered.
	conv.Messages[1].CurrentVersion = FormatVersionID(9)
	assert.Equal(t, []string{"one", "three"}, conv.HistoryWindow(10))
}

// TestEditBranching walks the canonical branching flow: a reply made against
// v1 of a question survives an edit of the question, and each version keeps
// its own children.
func TestEditBranching(t *testing.T) {
	question := buildMessage(SenderUser, "What is the capital of France?")
	answer1 := buildMessage(SenderAI, "Paris.")
	linkToParent(&question, &answer1)

	// Edit the question: append v2 and make it current.
	question.Versions = append(question.Versions, Version{
		ID:            question.NextVersionID(),
		Content:       "What is the capital of Italy?",
		CreatedAt:     time.Now().UTC(),
		ChildMessages: map[MessageID]VersionID{},
	})
	question.CurrentVersion = FormatVersionID(2)

	// A fresh reply lands under v2.
	answer2 := buildMessage(SenderAI, "Rome.")
	linkToParent(&question, &answer2)

	conv := Conversation{Messages: []Message{question, answer1, answer2}}
	require.NoError(t, conv.CheckInvariants())

	stored := conv.FindMessage(question.ID)
	v1 := stored.Version(FormatVersionID(1))
	v2 := stored.Version(FormatVersionID(2))
	require.NotNil(t, v1)
	require.NotNil(t, v2)

	assert.Contains(t, v1.ChildMessages, answer1.ID)
	assert.NotContains(t, v1.ChildMessages, answer2.ID)
	assert.Contains(t, v2.ChildMessages, answer2.ID)

	// Switching back to v1 keeps the document structurally valid.
	stored.CurrentVersion = FormatVersionID(1)
	require.NoError(t, conv.CheckInvariants())
}

func TestCheckInvariants(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		root := buildMessage(SenderUser, "root")
		reply := buildMessage(SenderAI, "reply")
		linkToParent(&root, &reply)

		conv := Conversation{Messages: []Message{root, reply}}
		assert.NoError(t, conv.CheckInvariants())
	})

	t.Run("dangling current version", func(t *testing.T) {
		m := buildMessage(SenderUser, "x")
		m.CurrentVersion = FormatVersionID(5)

		conv := Conversation{Messages: []Message{m}}
		assert.Error(t, conv.CheckInvariants())
	})

	t.Run("parent outside conversation", func(t *testing.T) {
		m := buildMessage(SenderUser, "x")
		phantom := NewMessageID()
		pv := FormatVersionID(1)
		m.ParentID = &phantom
		m.ParentVersion = &pv

		conv := Conversation{Messages: []Message{m}}
		assert.Error(t, conv.CheckInvariants())
	})

	t.Run("parent set without parent version", func(t *testing.T) {
		root := buildMessage(SenderUser, "root")
		child := buildMessage(SenderAI, "child")
		rootID := root.ID
		child.ParentID = &rootID

		conv := Conversation{Messages: []Message{root, child}}
		assert.Error(t, conv.CheckInvariants())
	})

	t.Run("child map entry without back link", func(t *testing.T) {
		root := buildMessage(SenderUser, "root")
		stray := buildMessage(SenderAI, "stray")
		root.Versions[0].ChildMessages[stray.ID] = stray.CurrentVersion

		conv := Conversation{Messages: []Message{root, stray}}
		assert.Error(t, conv.CheckInvariants())
	})
}
