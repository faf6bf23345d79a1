package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"routebook/internal/models"
	"routebook/internal/repositories/interfaces"
)

type documentStore struct {
	db *mongo.Database
}

func NewDocumentStore(db *mongo.Database) interfaces.DocumentStore {
	return &documentStore{db: db}
}

func (s *documentStore) Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := primitive.NewObjectID()

	doc := make(bson.M, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	return id.Hex(), nil
}

func (s *documentStore) Query(ctx context.Context, collection string, equality map[string]interface{}, order interfaces.OrderBy) ([]interfaces.Document, error) {
	filter := bson.M{}
	for k, v := range equality {
		filter[k] = v
	}

	opts := options.Find()
	if order.Field != "" {
		opts.SetSort(bson.D{{Key: order.Field, Value: int(order.Direction)}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []interfaces.Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, documentFromBSON(raw))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return docs, nil
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (interfaces.Document, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return interfaces.Document{}, fmt.Errorf("%w: invalid id %q", models.ErrNotFound, id)
	}

	var raw bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return interfaces.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
		}
		return interfaces.Document{}, fmt.Errorf("failed to get document: %w", err)
	}

	return documentFromBSON(raw), nil
}

func (s *documentStore) DeleteByID(ctx context.Context, collection, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", models.ErrNotFound, id)
	}

	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}

	return nil
}

func documentFromBSON(raw bson.M) interfaces.Document {
	doc := interfaces.Document{Fields: make(map[string]interface{}, len(raw))}

	for k, v := range raw {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				doc.ID = id.Hex()
			case string:
				doc.ID = id
			default:
				doc.ID = fmt.Sprint(id)
			}
			continue
		}
		doc.Fields[k] = normalizeValue(v)
	}

	return doc
}

func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case primitive.DateTime:
		return value.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(value.T), 0).UTC()
	case time.Time:
		return value.UTC()
	default:
		return v
	}
}
