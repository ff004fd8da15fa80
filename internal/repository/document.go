package repository

import (
	"math"
	"strconv"
	"time"

	"github.com/spec-kit/shop-directory/internal/docstore"
)

// Collection names.
const (
	UsersCollection      = "users"
	BusinessesCollection = "businesses"
	ProductsCollection   = "products"
	ReviewsCollection    = "reviews"
)

// Shared document field names.
const (
	fieldCreatedAt  = "createdAt"
	fieldUpdatedAt  = "updatedAt"
	fieldStatus     = "status"
	fieldBusinessID = "businessId"
)

// Indexes returns the lookup indexes used by the repository queries.
func Indexes() []docstore.Index {
	return []docstore.Index{
		{Collection: UsersCollection, Fields: []docstore.IndexField{{Name: userFieldEmail}}},
		{Collection: BusinessesCollection, Fields: []docstore.IndexField{{Name: businessFieldOwnerEmail}}},
		{Collection: ProductsCollection, Fields: []docstore.IndexField{
			{Name: fieldBusinessID}, {Name: fieldCreatedAt, Descending: true},
		}},
		{Collection: ProductsCollection, Fields: []docstore.IndexField{
			{Name: fieldBusinessID}, {Name: fieldStatus},
		}},
		{Collection: ReviewsCollection, Fields: []docstore.IndexField{
			{Name: fieldBusinessID}, {Name: fieldCreatedAt, Descending: true},
		}},
	}
}

func getString(f docstore.Fields, key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func getOptionalString(f docstore.Fields, key string) *string {
	v, ok := f[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func getFloat(f docstore.Fields, key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return parsed
		}
	}
	return 0
}

func getInt(f docstore.Fields, key string) int {
	return int(math.Trunc(getFloat(f, key)))
}

func getTime(f docstore.Fields, key string) time.Time {
	s, ok := f[key].(string)
	if !ok {
		if t, ok := f[key].(time.Time); ok {
			return t.UTC()
		}
		return time.Time{}
	}
	t, err := docstore.ParseTime(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func getOptionalTime(f docstore.Fields, key string) *time.Time {
	if _, ok := f[key]; !ok {
		return nil
	}
	t := getTime(f, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// nullable stores empty optional strings as null.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
