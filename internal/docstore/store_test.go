package docstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shop-directory/internal/docstore"
)

// runContract exercises the behaviour every backend must share.
func runContract(t *testing.T, store docstore.Store, collection string) {
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	ids := make([]string, 0, 4)
	for i, status := range []string{"active", "inactive", "active", "active"} {
		id, err := store.Add(ctx, collection, docstore.Fields{
			"businessId": "b1",
			"name":       "item",
			"price":      float64(i) + 0.5,
			"status":     status,
			"createdAt":  docstore.FormatTime(base.Add(time.Duration(i) * time.Minute)),
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}
	_, err := store.Add(ctx, collection, docstore.Fields{"businessId": "b2", "status": "active", "createdAt": docstore.FormatTime(base)})
	require.NoError(t, err)

	doc, err := store.Get(ctx, collection, ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[1], doc.ID)
	assert.Equal(t, "inactive", doc.Fields["status"])
	assert.Equal(t, 1.5, doc.Fields["price"])

	_, err = store.Get(ctx, collection, "does-not-exist")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	q := docstore.Where("businessId", "b1").And("status", "active").OrderDesc("createdAt")
	docs, err := store.Query(ctx, collection, q)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{ids[3], ids[2], ids[0]}, []string{docs[0].ID, docs[1].ID, docs[2].ID})

	docs, err = store.Query(ctx, collection, q.WithLimit(2))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	n, err := store.Count(ctx, collection, docstore.Filter{Field: "businessId", Value: "b1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	n, err = store.Count(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, store.Update(ctx, collection, ids[0], docstore.Fields{"status": "inactive", "logo": nil}))
	doc, err = store.Get(ctx, collection, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "inactive", doc.Fields["status"])
	assert.Equal(t, "item", doc.Fields["name"], "update merges")
	assert.Nil(t, doc.Fields["logo"])

	assert.ErrorIs(t, store.Update(ctx, collection, "does-not-exist", docstore.Fields{"x": 1}), docstore.ErrNotFound)

	require.NoError(t, store.Delete(ctx, collection, ids[0]))
	_, err = store.Get(ctx, collection, ids[0])
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, collection, ids[0]), docstore.ErrNotFound)

	require.NoError(t, store.Ping(ctx))
}

func TestMemoryStoreContract(t *testing.T) {
	runContract(t, docstore.NewMemoryStore(), "products")
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()
	id, err := store.Add(ctx, "c", docstore.Fields{"name": "a"})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "c", id)
	require.NoError(t, err)
	doc.Fields["name"] = "mutated"

	again, err := store.Get(ctx, "c", id)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Fields["name"])
}

func TestMemoryStoreOrdersTiesByInsertion(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()
	ts := docstore.FormatTime(time.Unix(0, 0))
	first, err := store.Add(ctx, "c", docstore.Fields{"createdAt": ts})
	require.NoError(t, err)
	second, err := store.Add(ctx, "c", docstore.Fields{"createdAt": ts})
	require.NoError(t, err)

	docs, err := store.Query(ctx, "c", docstore.Query{}.OrderDesc("createdAt"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, second, docs[0].ID)
	assert.Equal(t, first, docs[1].ID)
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 9, 10, 11, 12, 345000000, time.UTC)
	s := docstore.FormatTime(ts)
	assert.Equal(t, "2024-03-09T10:11:12.345Z", s)

	parsed, err := docstore.ParseTime(s)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	parsed, err = docstore.ParseTime("2024-03-09T10:11:12Z")
	require.NoError(t, err)
	assert.Equal(t, 12, parsed.Second())

	_, err = docstore.ParseTime("yesterday")
	assert.Error(t, err)
}

func TestMemoryStoreConcurrentQueryAndUpdate(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()
	ids := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		id, err := store.Add(ctx, "products", docstore.Fields{
			"businessId": "b",
			"createdAt":  docstore.FormatTime(time.Unix(int64(i), 0)),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	q := docstore.Where("businessId", "b").OrderDesc("createdAt")
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				docs, err := store.Query(ctx, "products", q)
				assert.NoError(t, err)
				assert.Len(t, docs, len(ids))
			}
		}()
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := ids[(w+i)%len(ids)]
				assert.NoError(t, store.Update(ctx, "products", id, docstore.Fields{
					"createdAt": docstore.FormatTime(time.Unix(int64(i), 0)),
					"name":      fmt.Sprintf("n%d", i),
				}))
			}
		}(w)
	}
	wg.Wait()
}
