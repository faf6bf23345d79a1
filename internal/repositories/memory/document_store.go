package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"routebook/internal/models"
	"routebook/internal/repositories/interfaces"
)

type storedDocument struct {
	seq    uint64
	fields map[string]interface{}
}

// DocumentStore keeps documents in process memory. Used for development and tests.
type DocumentStore struct {
	mu          sync.RWMutex
	seq         uint64
	collections map[string]map[string]storedDocument
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]storedDocument),
	}
}

var _ interfaces.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]storedDocument)
		s.collections[collection] = docs
	}
	s.seq++
	docs[id] = storedDocument{seq: s.seq, fields: copyFields(fields)}

	return id, nil
}

func (s *DocumentStore) Query(ctx context.Context, collection string, equality map[string]interface{}, order interfaces.OrderBy) ([]interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	type match struct {
		id  string
		doc storedDocument
	}
	var matches []match
	for id, doc := range s.collections[collection] {
		if matchesEquality(doc.fields, equality) {
			matches = append(matches, match{id: id, doc: doc})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].doc.seq < matches[j].doc.seq
	})
	if order.Field != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			cmp := compareValues(matches[i].doc.fields[order.Field], matches[j].doc.fields[order.Field])
			if order.Direction == interfaces.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	result := make([]interfaces.Document, 0, len(matches))
	for _, m := range matches {
		result = append(result, interfaces.Document{ID: m.id, Fields: copyFields(m.doc.fields)})
	}
	return result, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return interfaces.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	return interfaces.Document{ID: id, Fields: copyFields(doc.fields)}, nil
}

func (s *DocumentStore) DeleteByID(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	delete(s.collections[collection], id)
	return nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			v = t.UTC()
		}
		out[k] = v
	}
	return out
}

func matchesEquality(fields, equality map[string]interface{}) bool {
	for k, want := range equality {
		got, ok := fields[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// compareValues orders times, strings and numbers. Missing or mixed values
// sort before everything else.
func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	default:
		an, aok := toFloat(a)
		bn, bok := toFloat(b)
		if aok && bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
