package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgrote/treechat/internal/models"
)

func TestClientQuery(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	result, err := testDB.Query(ctx, "RETURN 1", nil)
	require.NoError(t, err, "should execute query")
	assert.NotNil(t, result)
}

func TestClientInitSchemaIdempotent(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	// Schema statements use IF NOT EXISTS, so a second run must not fail.
	require.NoError(t, testDB.InitSchema(ctx))

	result, err := testDB.Query(ctx, "INFO FOR DB", nil)
	require.NoError(t, err, "should query database info")
	assert.NotNil(t, result)
}

func TestWipeData(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	conv, err := testDB.CreateConversation(ctx, "Wipe Victim")
	require.NoError(t, err)

	require.NoError(t, testDB.WipeData(ctx))

	id := models.ConversationID(models.MustRecordIDString(conv.ID))
	_, err = testDB.GetConversation(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
