package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
)

// MongoStore implements Store on top of a MongoDB database. Documents carry a
// string _id so that identifiers stay opaque to callers.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a MongoStore over an existing database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureEmailIndex creates a unique index on the email field of the given
// collection. The destination-side uniqueness constraint is what keeps
// overlapping sync runs from producing duplicate documents per email.
func (s *MongoStore) EnsureEmailIndex(ctx context.Context, collection string) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index on %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing collection %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	return decodeDocuments(ctx, cur)
}

func (s *MongoStore) FindWhere(ctx context.Context, collection string, conds ...Condition) ([]Document, error) {
	filter, err := buildFilter(conds)
	if err != nil {
		return nil, err
	}

	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying collection %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	return decodeDocuments(ctx, cur)
}

func (s *MongoStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	doc := stampNew(data)
	doc["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("error inserting into %s: %w", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	coll := s.db.Collection(collection)
	now := time.Now().UTC()

	if merge {
		fields := bson.M{FieldUpdatedAt: now}
		for k, v := range data {
			fields[k] = v
		}
		update := bson.M{
			"$set":         fields,
			"$setOnInsert": bson.M{FieldCreatedAt: now},
		}
		_, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("error merging document %s: %w", id, err)
		}
		return nil
	}

	doc := stampNew(data)
	doc["_id"] = id
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error replacing document %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting document %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

func (s *MongoStore) Batch(collection string) Batch {
	return &mongoBatch{store: s, collection: collection}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// mongoBatch stages write models and submits them as one ordered bulk write.
type mongoBatch struct {
	store      *MongoStore
	collection string
	models     []mongo.WriteModel
}

func (b *mongoBatch) Add(data map[string]any) {
	doc := stampNew(data)
	doc["_id"] = uuid.New().String()
	b.models = append(b.models, mongo.NewInsertOneModel().SetDocument(doc))
}

func (b *mongoBatch) Set(id string, data map[string]any, merge bool) {
	now := time.Now().UTC()
	if merge {
		fields := bson.M{FieldUpdatedAt: now}
		for k, v := range data {
			fields[k] = v
		}
		b.models = append(b.models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{
				"$set":         fields,
				"$setOnInsert": bson.M{FieldCreatedAt: now},
			}).
			SetUpsert(true))
		return
	}

	doc := stampNew(data)
	doc["_id"] = id
	b.models = append(b.models, mongo.NewReplaceOneModel().
		SetFilter(bson.M{"_id": id}).
		SetReplacement(doc).
		SetUpsert(true))
}

func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.models) == 0 {
		return nil
	}
	_, err := b.store.db.Collection(b.collection).BulkWrite(ctx, b.models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrBatchRejected, err)
	}
	b.models = nil
	return nil
}

// buildFilter turns the condition list into a bson filter, folding multiple
// conditions on the same field into one operator document so range queries
// work ({"$gte": lo, "$lt": hi}).
func buildFilter(conds []Condition) (bson.M, error) {
	filter := bson.M{}
	for _, c := range conds {
		op, err := mongoOp(c.Op)
		if err != nil {
			return nil, err
		}
		existing, ok := filter[c.Field].(bson.M)
		if !ok {
			existing = bson.M{}
			filter[c.Field] = existing
		}
		existing[op] = c.Value
	}
	return filter, nil
}

func mongoOp(op string) (string, error) {
	switch op {
	case OpEqual:
		return "$eq", nil
	case OpGreaterEqual:
		return "$gte", nil
	case OpGreater:
		return "$gt", nil
	case OpLessEqual:
		return "$lte", nil
	case OpLess:
		return "$lt", nil
	default:
		return "", fmt.Errorf("unsupported operator %q", op)
	}
}

func decodeDocuments(ctx context.Context, cur *mongo.Cursor) ([]Document, error) {
	var docs []Document
	for cur.Next(ctx) {
		raw := bson.M{}
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		doc := Document{Data: map[string]any{}}
		for k, v := range raw {
			if k == "_id" {
				if id, ok := v.(string); ok {
					doc.ID = id
				} else {
					doc.ID = fmt.Sprint(v)
				}
				continue
			}
			// The driver decodes stored dates as primitive.DateTime; hand
			// callers time.Time so bson types stay inside this package.
			if dt, ok := v.(primitive.DateTime); ok {
				doc.Data[k] = dt.Time().UTC()
				continue
			}
			doc.Data[k] = v
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// stampNew copies data and assigns fresh created_at/updated_at timestamps.
func stampNew(data map[string]any) bson.M {
	doc := bson.M{}
	for k, v := range data {
		doc[k] = v
	}
	now := time.Now().UTC()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	return doc
}
