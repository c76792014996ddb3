package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestCacheStore_Sizing(t *testing.T) {
	store := NewCacheStore(CacheConfig{
		NumBlocks: 4,
		BlockSize: 2,
		NumLayers: 2,
		NumHeads:  2,
		HeadSize:  8,
	})
	// per block: 2 layers * 2 heads * 2 tokens * 8 dims = 64 entries
	keys, err := store.KeyBlock(0)
	require.NoError(t, err)
	assert.Len(t, keys, 64)

	// 64 entries * 2 bytes * (keys + values)
	assert.Equal(t, int64(256), store.BlockBytes())
	assert.Equal(t, int64(1024), store.TotalBytes())
	assert.Equal(t, "cpu", store.Device())
}

func TestCacheStore_ViewsAliasTheBuffer(t *testing.T) {
	store := NewCacheStore(testConfig(4, 2))
	view, err := store.KeyBlock(2)
	require.NoError(t, err)
	view[0] = float16.Fromfloat32(1.5)

	again, err := store.KeyBlock(2)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), again[0].Float32())

	// a different block is untouched
	other, err := store.KeyBlock(1)
	require.NoError(t, err)
	assert.Equal(t, float32(0), other[0].Float32())
}

func TestCacheStore_KeyAndValueAreSeparate(t *testing.T) {
	store := NewCacheStore(testConfig(2, 2))
	keys, err := store.KeyBlock(0)
	require.NoError(t, err)
	keys[0] = float16.Fromfloat32(3)

	values, err := store.ValueBlock(0)
	require.NoError(t, err)
	assert.Equal(t, float32(0), values[0].Float32())
}

func TestCacheStore_InvalidBlockID(t *testing.T) {
	store := NewCacheStore(testConfig(2, 2))
	_, err := store.KeyBlock(2)
	assert.ErrorIs(t, err, ErrInvalidBlockID)
	_, err = store.ValueBlock(-1)
	assert.ErrorIs(t, err, ErrInvalidBlockID)
}
