package viewcount

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvh-sh/folio/listing"
)

// Runs against a real server only when FOLIO_TEST_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FOLIO_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FOLIO_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	dbName := fmt.Sprintf("folio_test_%d", time.Now().UnixNano())

	s, err := NewMongoStore(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.col.Database().Drop(context.Background())
		_ = s.Close()
	})

	n, err := s.Count(ctx, "hello", listing.Blog)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.Increment(ctx, "hello", listing.Blog)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Increment(ctx, "hello", listing.Blog)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.Increment(ctx, "hello", listing.Cooking)
	require.NoError(t, err)

	counts, err := s.Counts(ctx, listing.Blog)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hello": 2}, counts)

	counts, err = s.Counts(ctx, listing.Cooking)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hello": 1}, counts)
}
