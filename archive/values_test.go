package archive

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/blobstore"
	"github.com/hupe1980/results/cloudevents"
	"github.com/hupe1980/results/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

func TestStoreLoadValue(t *testing.T) {
	ctx := context.Background()
	a := New(blobstore.NewMemoryStore(), WithCompression(compress.ZstdCodec{}))
	w := cloudevents.NewWriter(
		cloudevents.WithDefaultSource("urn:shop"),
		cloudevents.WithDefaultTypes("shop.order.placed", "shop.order.rejected"),
		cloudevents.WithIDGenerator(func() string { return "gen-1" }),
		cloudevents.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
	rd := cloudevents.NewReader()

	t.Run("Value", func(t *testing.T) {
		in := results.Ok(order{ID: "o-1", Total: 42})
		id, err := StoreValue(ctx, a, w, in, cloudevents.Attributes{ID: "evt-7"})
		require.NoError(t, err)
		assert.Equal(t, "evt-7", id)

		out, err := LoadValue[order](ctx, a, rd, id)
		require.NoError(t, err)
		assert.Equal(t, order{ID: "o-1", Total: 42}, out.MustValue())
	})

	t.Run("GeneratedID", func(t *testing.T) {
		id, err := StoreValue(ctx, a, w, results.Ok(1), cloudevents.Attributes{})
		require.NoError(t, err)
		assert.Equal(t, "gen-1", id)

		envelope, err := a.Get(ctx, "gen-1")
		require.NoError(t, err)
		assert.Contains(t, string(envelope), `"id":"gen-1"`)
	})

	t.Run("Failure", func(t *testing.T) {
		in := results.Fail[order](results.ValidationError("total", "must be positive"))
		id, err := StoreValue(ctx, a, w, in, cloudevents.Attributes{ID: "evt-8"})
		require.NoError(t, err)

		out, err := LoadValue[order](ctx, a, rd, id)
		require.NoError(t, err)
		require.True(t, out.IsFailure())

		first, err := out.FirstError()
		require.NoError(t, err)
		assert.Equal(t, "must be positive", first.Message)
		assert.Equal(t, "total", first.Target)
	})

	t.Run("Void", func(t *testing.T) {
		id, err := Store(ctx, a, w, results.OK(), cloudevents.Attributes{ID: "evt-9"})
		require.NoError(t, err)

		out, err := Load(ctx, a, rd, id)
		require.NoError(t, err)
		assert.True(t, out.IsSuccess())
	})

	t.Run("InvalidAttributes", func(t *testing.T) {
		bare := cloudevents.NewWriter()
		_, err := StoreValue(ctx, a, bare, results.Ok(1), cloudevents.Attributes{ID: "x"})
		require.ErrorIs(t, err, cloudevents.ErrInvalidAttribute)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadValue[order](ctx, a, rd, "nope")
		require.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
