package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
)

const testColl = "alumni"

func TestAddAndListAll(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	id, err := store.Add(ctx, testColl, map[string]any{"first_name": "John"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	docs, err := store.ListAll(ctx, testColl)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "John", docs[0].Data["first_name"])
	assert.NotNil(t, docs[0].Data[FieldCreatedAt])
	assert.NotNil(t, docs[0].Data[FieldUpdatedAt])
}

func TestPrefixRangeSearch(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	for _, name := range []string{"John", "Joanna", "Bob", "Jo"} {
		_, err := store.Add(ctx, testColl, map[string]any{"first_name": name})
		require.NoError(t, err)
	}

	docs, err := store.FindWhere(ctx, testColl, PrefixRange("first_name", "Jo")...)
	require.NoError(t, err)

	var names []string
	for _, doc := range docs {
		names = append(names, doc.Data["first_name"].(string))
	}
	assert.ElementsMatch(t, []string{"John", "Joanna", "Jo"}, names)
}

func TestPrefixRangeIsCaseSensitive(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	_, err := store.Add(ctx, testColl, map[string]any{"first_name": "john"})
	require.NoError(t, err)

	docs, err := store.FindWhere(ctx, testColl, PrefixRange("first_name", "Jo")...)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFindWhereEquality(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	_, err := store.Add(ctx, testColl, map[string]any{"email": "a@example.com"})
	require.NoError(t, err)
	_, err = store.Add(ctx, testColl, map[string]any{"email": "b@example.com"})
	require.NoError(t, err)

	docs, err := store.FindWhere(ctx, testColl, Condition{Field: "email", Op: OpEqual, Value: "a@example.com"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a@example.com", docs[0].Data["email"])
}

func TestSetMergePreservesUnspecifiedFields(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	id, err := store.Add(ctx, testColl, map[string]any{"first_name": "John", "department": "CS"})
	require.NoError(t, err)

	created := mustGet(t, store, id).Data[FieldCreatedAt]

	err = store.Set(ctx, testColl, id, map[string]any{"first_name": "Johnny"}, true)
	require.NoError(t, err)

	doc := mustGet(t, store, id)
	assert.Equal(t, "Johnny", doc.Data["first_name"])
	assert.Equal(t, "CS", doc.Data["department"])
	assert.Equal(t, created, doc.Data[FieldCreatedAt])
}

func TestSetReplaceDropsUnspecifiedFields(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	id, err := store.Add(ctx, testColl, map[string]any{"first_name": "John", "department": "CS"})
	require.NoError(t, err)

	err = store.Set(ctx, testColl, id, map[string]any{"first_name": "Johnny"}, false)
	require.NoError(t, err)

	doc := mustGet(t, store, id)
	assert.Equal(t, "Johnny", doc.Data["first_name"])
	assert.NotContains(t, doc.Data, "department")
}

func TestSetUpserts(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	err := store.Set(ctx, testColl, "fresh-id", map[string]any{"first_name": "New"}, true)
	require.NoError(t, err)

	doc := mustGet(t, store, "fresh-id")
	assert.Equal(t, "New", doc.Data["first_name"])
	assert.NotNil(t, doc.Data[FieldCreatedAt])
}

func TestDeleteMissingDocument(t *testing.T) {
	store := NewMemStore()

	err := store.Delete(context.Background(), testColl, "absent")
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestBatchAppliesAllOnCommit(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	batch := store.Batch(testColl)
	batch.Add(map[string]any{"first_name": "A"})
	batch.Add(map[string]any{"first_name": "B"})

	// Nothing lands before commit
	assert.Equal(t, 0, store.Count(testColl))

	require.NoError(t, batch.Commit(ctx))
	assert.Equal(t, 2, store.Count(testColl))
}

func TestBatchRejectionAppliesNothing(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	batch := store.Batch(testColl)
	batch.Add(map[string]any{"first_name": "A"})
	batch.Set("", map[string]any{"first_name": "B"}, true)

	err := batch.Commit(ctx)
	require.ErrorIs(t, err, apperrors.ErrBatchRejected)
	assert.Equal(t, 0, store.Count(testColl))
}

func mustGet(t *testing.T, store *MemStore, id string) Document {
	t.Helper()
	docs, err := store.ListAll(context.Background(), testColl)
	require.NoError(t, err)
	for _, doc := range docs {
		if doc.ID == id {
			return doc
		}
	}
	t.Fatalf("document %s not found", id)
	return Document{}
}
