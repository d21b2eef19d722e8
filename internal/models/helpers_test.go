package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordIDString(t *testing.T) {
	id := surrealmodels.RecordID{Table: "conversation", ID: "abc-123"}

	s, err := RecordIDString(id)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", s)

	bad := surrealmodels.RecordID{Table: "conversation", ID: 42}
	_, err = RecordIDString(bad)
	assert.Error(t, err)
}

func TestMustRecordIDString(t *testing.T) {
	id := surrealmodels.RecordID{Table: "conversation", ID: "abc-123"}
	assert.Equal(t, "abc-123", MustRecordIDString(id))

	assert.Panics(t, func() {
		MustRecordIDString(surrealmodels.RecordID{Table: "conversation", ID: 42})
	})
}
