package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persisted(t *testing.T, w *Wishlist) string {
	t.Helper()

	raw, ok, err := w.kv.Get(context.Background(), KeyWishlist)
	require.NoError(t, err)
	require.True(t, ok, "wishlist should have been written")
	return raw
}

func TestToggleAddsThenRemoves(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(newTestKV(t))
	require.NoError(t, w.Load(ctx))
	assert.Empty(t, w.IDs())

	liked, err := w.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, w.IsLiked(42))
	assert.Equal(t, []int{42}, w.IDs())
	assert.Equal(t, "[42]", persisted(t, w))

	liked, err = w.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.False(t, w.IsLiked(42))
	assert.Empty(t, w.IDs())
	assert.Equal(t, "[]", persisted(t, w))
}

func TestToggleIsInvolutive(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	w := NewWishlist(kv)

	for _, id := range []int{7, 11, 13} {
		_, err := w.Toggle(ctx, id)
		require.NoError(t, err)
	}
	before := w.IDs()
	beforeRaw := persisted(t, w)

	for _, id := range []int{11, 99} {
		_, err := w.Toggle(ctx, id)
		require.NoError(t, err)
		_, err = w.Toggle(ctx, id)
		require.NoError(t, err)

		assert.ElementsMatch(t, before, w.IDs())
		reloaded := NewWishlist(kv)
		require.NoError(t, reloaded.Load(ctx))
		assert.ElementsMatch(t, before, reloaded.IDs())
	}
	assert.NotEmpty(t, beforeRaw)
}

func TestToggleKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(newTestKV(t))

	for _, id := range []int{3, 1, 2} {
		_, err := w.Toggle(ctx, id)
		require.NoError(t, err)
	}
	_, err := w.Toggle(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 2}, w.IDs())
	assert.Equal(t, "[3,2]", persisted(t, w))
}

func TestLoadDropsDuplicatesAndSurvivesCorruption(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	require.NoError(t, kv.Set(ctx, KeyWishlist, "[5,5,8,5]"))
	w := NewWishlist(kv)
	require.NoError(t, w.Load(ctx))
	assert.Equal(t, []int{5, 8}, w.IDs())
	assert.Equal(t, 2, w.Len())

	require.NoError(t, kv.Set(ctx, KeyWishlist, "not json"))
	require.NoError(t, w.Load(ctx))
	assert.Empty(t, w.IDs())
}

func TestToggleRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Store: newTestKV(t), allowedWrites: 1}
	w := NewWishlist(kv)

	liked, err := w.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = w.Toggle(ctx, 2)
	require.Error(t, err)
	assert.False(t, liked)
	assert.Equal(t, []int{1}, w.IDs())
}

func TestIDsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(newTestKV(t))
	_, err := w.Toggle(ctx, 10)
	require.NoError(t, err)

	ids := w.IDs()
	ids[0] = 999

	assert.True(t, w.IsLiked(10))
	assert.False(t, w.IsLiked(999))
}
