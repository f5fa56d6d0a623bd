package media

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChunk(t *testing.T) {
	ids := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		ids = append(ids, fmt.Sprintf("id-%d", i))
	}

	chunks := Chunk(ids, 100)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[2], 50)
	assert.Equal(t, "id-249", chunks[2][49])

	assert.Empty(t, Chunk(nil, 100))
}

func TestStoreFolder(t *testing.T) {
	id := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	assert.Equal(t, "stores/33333333-3333-3333-3333-333333333333", StoreFolder(id))
	assert.Equal(t, "stores/33333333-3333-3333-3333-333333333333/", StorePrefix(id))
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1740815725/stores/abc/ay2av1mwuakrobwzv0vl.png", "stores/abc/ay2av1mwuakrobwzv0vl"},
		{"https://res.cloudinary.com/demo/image/upload/stores/abc/photo.webp", "stores/abc/photo"},
		{"https://res.cloudinary.com/demo/image/upload/v1/logo", "logo"},
		{"https://res.cloudinary.com/demo/image/upload/", ""},
		{"https://example.com/images/photo.jpg", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PublicIDFromURL(tt.url), tt.url)
	}

	assert.True(t, MatchesURL("https://res.cloudinary.com/demo/image/upload/v12/stores/abc/x.jpg", "stores/abc/x"))
	assert.False(t, MatchesURL("https://res.cloudinary.com/demo/image/upload/v12/stores/abc/x.jpg", "stores/abc/y"))
}

type recordingStorage struct {
	deleted chan []string
}

func (r *recordingStorage) Upload(context.Context, io.Reader, string) (*Asset, error) {
	return nil, nil
}

func (r *recordingStorage) Delete(_ context.Context, ids []string) error {
	r.deleted <- ids
	return nil
}

func TestPurge(t *testing.T) {
	s := &recordingStorage{deleted: make(chan []string, 1)}

	Purge(s, zap.NewNop().Sugar(), []string{"a", "b"})

	select {
	case got := <-s.deleted:
		assert.Equal(t, []string{"a", "b"}, got)
	case <-time.After(time.Second):
		t.Fatal("purge did not run")
	}

	// Nothing to do.
	Purge(s, zap.NewNop().Sugar(), nil)
	Purge(nil, zap.NewNop().Sugar(), []string{"x"})
}
