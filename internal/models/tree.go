package models

import "fmt"

// DescendantSet computes the transitive closure of parent_id links from root:
// root itself plus every message that descends from it. The result is a set;
// traversal order carries no meaning. A visited guard makes corrupted,
// cyclic-looking parent links terminate instead of looping.
func (c *Conversation) DescendantSet(root MessageID) map[MessageID]struct{} {
	children := make(map[MessageID][]MessageID, len(c.Messages))
	for i := range c.Messages {
		m := &c.Messages[i]
		if m.ParentID != nil {
			children[*m.ParentID] = append(children[*m.ParentID], m.ID)
		}
	}

	set := make(map[MessageID]struct{})
	queue := []MessageID{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := set[id]; seen {
			continue
		}
		set[id] = struct{}{}
		queue = append(queue, children[id]...)
	}
	return set
}

// LastMessageBySender returns the most recently created message with the
// given sender, or nil.
func (c *Conversation) LastMessageBySender(s Sender) *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == s {
			return &c.Messages[i]
		}
	}
	return nil
}

// HistoryWindow returns the current-version content of the most recent n
// messages in chronological order. Messages with a dangling current_version
// pointer are skipped.
func (c *Conversation) HistoryWindow(n int) []string {
	start := len(c.Messages) - n
	if start < 0 {
		start = 0
	}
	history := make([]string, 0, n)
	for i := start; i < len(c.Messages); i++ {
		if v := c.Messages[i].ActiveVersion(); v != nil {
			history = append(history, v.Content)
		}
	}
	return history
}

// CheckInvariants verifies the structural invariants of the document:
// every current_version pointer resolves, every parent link stays inside the
// conversation, and every child_messages entry points back consistently.
// Intended for tests and debugging, not the hot path.
func (c *Conversation) CheckInvariants() error {
	for i := range c.Messages {
		m := &c.Messages[i]
		if m.ActiveVersion() == nil {
			return fmt.Errorf("message %s: current_version %s not in versions", m.ID, m.CurrentVersion)
		}
		if m.ParentID != nil {
			parent := c.FindMessage(*m.ParentID)
			if parent == nil {
				return fmt.Errorf("message %s: parent %s not in conversation", m.ID, *m.ParentID)
			}
			if m.ParentVersion == nil {
				return fmt.Errorf("message %s: parent set but parent_version missing", m.ID)
			}
			if parent.Version(*m.ParentVersion) == nil {
				return fmt.Errorf("message %s: parent_version %s not in parent %s", m.ID, *m.ParentVersion, parent.ID)
			}
		}
		for vi := range m.Versions {
			v := &m.Versions[vi]
			for childID, childVersion := range v.ChildMessages {
				child := c.FindMessage(childID)
				if child == nil {
					return fmt.Errorf("version %s/%s: child %s not in conversation", m.ID, v.ID, childID)
				}
				if child.ParentID == nil || *child.ParentID != m.ID {
					return fmt.Errorf("version %s/%s: child %s does not point back", m.ID, v.ID, childID)
				}
				if child.ParentVersion == nil || *child.ParentVersion != v.ID {
					return fmt.Errorf("version %s/%s: child %s linked to wrong version", m.ID, v.ID, childID)
				}
				if child.Version(childVersion) == nil {
					return fmt.Errorf("version %s/%s: child %s version-at-link %s missing", m.ID, v.ID, childID, childVersion)
				}
			}
		}
	}
	return nil
}
