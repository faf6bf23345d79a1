package interfaces

import "context"

// Document is a stored record with its generated id. Timestamp fields are
// always time.Time in UTC, whatever the engine stores natively.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

type OrderBy struct {
	Field     string
	Direction SortDirection
}

// DocumentStore is the generic CRUD contract of the storage engine.
// Get returns models.ErrNotFound for missing documents.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Query(ctx context.Context, collection string, equality map[string]interface{}, order OrderBy) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	DeleteByID(ctx context.Context, collection, id string) error
}
