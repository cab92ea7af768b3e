// Package docstore defines the client contract for the secondary document
// store that mirrors alumni records, together with a MongoDB-backed
// implementation and an in-memory implementation used in tests and
// store-less deployments.
package docstore

import (
	"context"
)

// Timestamp field names assigned by the store itself on every write. The
// mirror's timestamps are server-assigned and distinct from the relational
// store's columns.
const (
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Comparison operators accepted by FindWhere.
const (
	OpEqual        = "=="
	OpGreaterEqual = ">="
	OpGreater      = ">"
	OpLessEqual    = "<="
	OpLess         = "<"
)

// Document is a single stored document with its store-assigned identifier.
type Document struct {
	ID   string
	Data map[string]any
}

// Condition is one field comparison. FindWhere combines multiple conditions
// with AND, which is how a prefix search becomes a closed range on one field.
type Condition struct {
	Field string
	Op    string
	Value any
}

// Store is the document-store client contract.
type Store interface {
	// ListAll returns every document in the collection.
	ListAll(ctx context.Context, collection string) ([]Document, error)

	// FindWhere returns the documents matching all conditions. An empty
	// result is not an error.
	FindWhere(ctx context.Context, collection string, conds ...Condition) ([]Document, error)

	// Add inserts a new document with server-assigned created_at/updated_at
	// and returns its identifier.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Set writes a document by id, stamping updated_at. With merge the
	// supplied fields overwrite and unspecified fields retain their prior
	// value; without merge the document is replaced. Set upserts when the id
	// does not exist.
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error

	// Delete removes a document by id.
	Delete(ctx context.Context, collection, id string) error

	// Batch starts an atomic write batch against one collection. Staged
	// operations take effect only on Commit; a rejected batch applies none
	// of them.
	Batch(collection string) Batch

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// Batch is a set of staged writes submitted for atomic application.
type Batch interface {
	Add(data map[string]any)
	Set(id string, data map[string]any, merge bool)
	Commit(ctx context.Context) error
}

// prefixUpperBound caps a prefix range. Every string starting with the prefix
// sorts below prefix + U+FFFF, so [prefix, prefix+"￿") is the whole
// prefix family and nothing else.
const prefixUpperBound = "￿"

// PrefixRange builds the condition pair matching every value of field that
// starts with prefix.
func PrefixRange(field, prefix string) []Condition {
	return []Condition{
		{Field: field, Op: OpGreaterEqual, Value: prefix},
		{Field: field, Op: OpLess, Value: prefix + prefixUpperBound},
	}
}
