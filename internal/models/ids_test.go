package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConversationID(t *testing.T) {
	id := NewConversationID()

	parsed, err := ParseConversationID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseConversationID("not-a-uuid")
	assert.Error(t, err)

	_, err = ParseConversationID("")
	assert.Error(t, err)
}

func TestParseMessageID(t *testing.T) {
	id := NewMessageID()

	parsed, err := ParseMessageID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseMessageID("garbage")
	assert.Error(t, err)
}

func TestVersionIDs(t *testing.T) {
	assert.Equal(t, VersionID("v1"), FormatVersionID(1))
	assert.Equal(t, VersionID("v17"), FormatVersionID(17))

	parsed, err := ParseVersionID("v3")
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.Number())

	for _, bad := range []string{"", "3", "v0", "v-1", "vx", "version1"} {
		_, err := ParseVersionID(bad)
		assert.Error(t, err, "ParseVersionID(%q) should fail", bad)
	}

	assert.Equal(t, 0, VersionID("bogus").Number())
}

func TestNextVersionID(t *testing.T) {
	m := Message{
		Versions: []Version{
			{ID: FormatVersionID(1)},
			{ID: FormatVersionID(2)},
		},
	}
	assert.Equal(t, VersionID("v3"), m.NextVersionID())

	empty := Message{}
	assert.Equal(t, VersionID("v1"), empty.NextVersionID())
}
