// Package docstore abstracts the document database behind a small
// collection/id API so services never see a concrete driver.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// TimeLayout is the fixed-width UTC layout used for stored timestamps.
// Fixed width keeps lexical order equal to chronological order in every backend.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Fields is the flat field set of a stored document.
type Fields map[string]any

// Document is a stored document together with its store-assigned id.
type Document struct {
	ID     string
	Fields Fields
}

// Filter is an equality condition on one field.
type Filter struct {
	Field string
	Value any
}

// Query selects documents from a collection.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Where returns a Query with a single equality filter.
func Where(field string, value any) Query {
	return Query{Filters: []Filter{{Field: field, Value: value}}}
}

// And adds another equality filter.
func (q Query) And(field string, value any) Query {
	q.Filters = append(append([]Filter{}, q.Filters...), Filter{Field: field, Value: value})
	return q
}

// OrderDesc orders results by field, newest (largest) first.
func (q Query) OrderDesc(field string) Query {
	q.OrderBy = field
	q.Descending = true
	return q
}

// WithLimit caps the number of results. Zero means unlimited.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// IndexField is one key of a secondary index.
type IndexField struct {
	Name       string
	Descending bool
}

// Index describes a non-unique lookup index backends may create.
type Index struct {
	Collection string
	Fields     []IndexField
}

// Store is a collection-addressed document database.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
	Add(ctx context.Context, collection string, fields Fields) (string, error)
	Update(ctx context.Context, collection, id string, patch Fields) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp. RFC 3339 values written by other
// clients are accepted as well.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func filtersToFields(filters []Filter) Fields {
	out := make(Fields, len(filters))
	for _, f := range filters {
		out[f.Field] = f.Value
	}
	return out
}
