package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore maps collections onto MongoDB collections of one database.
// Document ids are ObjectID hex strings.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps a database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var raw bson.M
	if err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	doc := fromBSON(raw)
	return &doc, nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	} else {
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, toFilter(q.Filters), opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, toFilter(filters))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	result, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert %s: unexpected id type %T", collection, result.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, patch Fields) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if len(patch) == 0 {
		_, err := s.Get(ctx, collection, id)
		return err
	}
	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the given lookup indexes. None of them are unique.
func (s *MongoStore) EnsureIndexes(ctx context.Context, indexes []Index) error {
	byCollection := map[string][]mongo.IndexModel{}
	for _, idx := range indexes {
		keys := bson.D{}
		for _, f := range idx.Fields {
			dir := 1
			if f.Descending {
				dir = -1
			}
			keys = append(keys, bson.E{Key: f.Name, Value: dir})
		}
		byCollection[idx.Collection] = append(byCollection[idx.Collection], mongo.IndexModel{Keys: keys})
	}
	for collection, models := range byCollection {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}

func toFilter(filters []Filter) bson.D {
	filter := bson.D{}
	for _, f := range filters {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}
	return filter
}

func fromBSON(raw bson.M) Document {
	doc := Document{Fields: make(Fields, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(bson.ObjectID); ok {
				doc.ID = oid.Hex()
			} else {
				doc.ID = fmt.Sprint(v)
			}
			continue
		}
		doc.Fields[k] = v
	}
	return doc
}
