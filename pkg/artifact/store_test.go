package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := NewInMemoryStore(0, 0)
	ctx := context.Background()

	id, err := s.Save(ctx, []byte("hello"), "greeting.txt", "test")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	data, meta, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "test", meta["category"])
}

func TestSniffsPNGMagicBytes(t *testing.T) {
	s := NewInMemoryStore(0, 0)
	ctx := context.Background()

	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0}
	id, err := s.Save(ctx, png, "image", "test")
	require.NoError(t, err)

	_, meta, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", meta["mimeType"])
}

func TestSniffsWAVContainer(t *testing.T) {
	s := NewInMemoryStore(0, 0)
	ctx := context.Background()

	wav := append([]byte("RIFF\x00\x00\x00\x00WAVEfmt "), make([]byte, 10)...)
	id, err := s.Save(ctx, wav, "audio", "test")
	require.NoError(t, err)

	_, meta, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", meta["mimeType"])
}

func TestGetMissingReturnsError(t *testing.T) {
	s := NewInMemoryStore(0, 0)
	_, _, err := s.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaxSizeRejectsOversizedPayload(t *testing.T) {
	s := NewInMemoryStore(4, 0)
	_, err := s.Save(context.Background(), []byte("too long"), "f", "c")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestMaxCountRejectsBeyondCapacity(t *testing.T) {
	s := NewInMemoryStore(0, 1)
	ctx := context.Background()
	_, err := s.Save(ctx, []byte("a"), "a", "c")
	require.NoError(t, err)
	_, err = s.Save(ctx, []byte("b"), "b", "c")
	assert.ErrorIs(t, err, ErrStoreFull)
}

func TestClearAllResetsStats(t *testing.T) {
	s := NewInMemoryStore(0, 0)
	ctx := context.Background()
	_, err := s.Save(ctx, []byte("a"), "a", "c")
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))
	count, bytes := s.Stats(ctx)
	assert.Zero(t, count)
	assert.Zero(t, bytes)
}
