package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
)

// MemStore is an in-memory Store implementation. It backs the test suite and
// lets the server run without a document store configured.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	// FindErr, when set, is consulted before every FindWhere call so tests
	// can inject per-record query failures.
	FindErr func(collection string, conds []Condition) error

	// CommitErr, when set, is returned by every batch commit so tests can
	// exercise batch-rejection behavior.
	CommitErr error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{collections: map[string]map[string]map[string]any{}}
}

func (s *MemStore) ListAll(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.collections[collection]))
	for id, data := range s.collections[collection] {
		docs = append(docs, Document{ID: id, Data: cloneData(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemStore) FindWhere(_ context.Context, collection string, conds ...Condition) ([]Document, error) {
	if s.FindErr != nil {
		if err := s.FindErr(collection, conds); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, data := range s.collections[collection] {
		match := true
		for _, c := range conds {
			if !matches(data[c.Field], c.Op, c.Value) {
				match = false
				break
			}
		}
		if match {
			docs = append(docs, Document{ID: id, Data: cloneData(data)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemStore) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.put(collection, id, stampNewMem(data))
	return id, nil
}

func (s *MemStore) Set(_ context.Context, collection, id string, data map[string]any, merge bool) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(collection, id, data, merge)
	return nil
}

func (s *MemStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if _, ok := coll[id]; !ok {
		return apperrors.ErrDocumentNotFound
	}
	delete(coll, id)
	return nil
}

func (s *MemStore) Batch(collection string) Batch {
	return &memBatch{store: s, collection: collection}
}

func (s *MemStore) Ping(context.Context) error { return nil }

// Count returns the number of documents in a collection. Test helper.
func (s *MemStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// put stores data under id; callers hold the write lock.
func (s *MemStore) put(collection, id string, data map[string]any) {
	coll, ok := s.collections[collection]
	if !ok {
		coll = map[string]map[string]any{}
		s.collections[collection] = coll
	}
	coll[id] = data
}

// apply performs a set with merge semantics; callers hold the write lock.
func (s *MemStore) apply(collection, id string, data map[string]any, merge bool) {
	now := time.Now().UTC()
	existing, ok := s.collections[collection][id]
	if merge && ok {
		for k, v := range data {
			existing[k] = v
		}
		existing[FieldUpdatedAt] = now
		return
	}

	doc := cloneData(data)
	if ok {
		doc[FieldCreatedAt] = existing[FieldCreatedAt]
	} else {
		doc[FieldCreatedAt] = now
	}
	doc[FieldUpdatedAt] = now
	s.put(collection, id, doc)
}

type memOp struct {
	id    string
	data  map[string]any
	merge bool
	isAdd bool
}

// memBatch stages ops and applies them under one lock on commit, so either
// every staged write lands or none does.
type memBatch struct {
	store      *MemStore
	collection string
	ops        []memOp
}

func (b *memBatch) Add(data map[string]any) {
	b.ops = append(b.ops, memOp{data: cloneData(data), isAdd: true})
}

func (b *memBatch) Set(id string, data map[string]any, merge bool) {
	b.ops = append(b.ops, memOp{id: id, data: cloneData(data), merge: merge})
}

func (b *memBatch) Commit(context.Context) error {
	if b.store.CommitErr != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrBatchRejected, b.store.CommitErr)
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	// Validate before touching anything
	for _, op := range b.ops {
		if !op.isAdd && op.id == "" {
			return fmt.Errorf("%w: set without document id", apperrors.ErrBatchRejected)
		}
	}

	for _, op := range b.ops {
		if op.isAdd {
			b.store.put(b.collection, uuid.New().String(), stampNewMem(op.data))
			continue
		}
		b.store.apply(b.collection, op.id, op.data, op.merge)
	}
	b.ops = nil
	return nil
}

func matches(fieldValue any, op string, condValue any) bool {
	// String comparison covers the search adapter's range queries; equality
	// falls back to formatted comparison for non-strings.
	fs, fok := fieldValue.(string)
	cs, cok := condValue.(string)
	if fok && cok {
		cmp := strings.Compare(fs, cs)
		switch op {
		case OpEqual:
			return cmp == 0
		case OpGreaterEqual:
			return cmp >= 0
		case OpGreater:
			return cmp > 0
		case OpLessEqual:
			return cmp <= 0
		case OpLess:
			return cmp < 0
		}
		return false
	}

	if op == OpEqual {
		return fmt.Sprint(fieldValue) == fmt.Sprint(condValue)
	}
	return false
}

func cloneData(data map[string]any) map[string]any {
	doc := make(map[string]any, len(data))
	for k, v := range data {
		doc[k] = v
	}
	return doc
}

func stampNewMem(data map[string]any) map[string]any {
	doc := cloneData(data)
	now := time.Now().UTC()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	return doc
}
