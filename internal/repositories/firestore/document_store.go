package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"routebook/internal/models"
	"routebook/internal/repositories/interfaces"
)

// documentStore keeps records in Cloud Firestore. Equality on one field with
// ordering on another needs a composite index in the project.
type documentStore struct {
	client *firestore.Client
}

func NewDocumentStore(client *firestore.Client) interfaces.DocumentStore {
	return &documentStore{client: client}
}

func (s *documentStore) Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("failed to add document: %w", err)
	}
	return ref.ID, nil
}

func (s *documentStore) Query(ctx context.Context, collection string, equality map[string]interface{}, order interfaces.OrderBy) ([]interfaces.Document, error) {
	query := s.client.Collection(collection).Query

	keys := make([]string, 0, len(equality))
	for k := range equality {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query = query.Where(k, "==", equality[k])
	}

	if order.Field != "" {
		direction := firestore.Asc
		if order.Direction == interfaces.Descending {
			direction = firestore.Desc
		}
		query = query.OrderBy(order.Field, direction)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []interfaces.Document
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query documents: %w", err)
		}
		docs = append(docs, documentFromSnapshot(snapshot))
	}

	return docs, nil
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (interfaces.Document, error) {
	snapshot, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return interfaces.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
		}
		return interfaces.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return documentFromSnapshot(snapshot), nil
}

func (s *documentStore) DeleteByID(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func documentFromSnapshot(snapshot *firestore.DocumentSnapshot) interfaces.Document {
	data := snapshot.Data()
	fields := make(map[string]interface{}, len(data))
	for k, v := range data {
		if t, ok := v.(time.Time); ok {
			v = t.UTC()
		}
		fields[k] = v
	}
	return interfaces.Document{ID: snapshot.Ref.ID, Fields: fields}
}
