package files

import (
	"context"
	"strings"
	"testing"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		refID     string
		expected  string
		wantErr   bool
	}{
		{name: "plain", reference: "avatars", refID: "u1", expected: "avatars/u1"},
		{name: "strips whitespace", reference: "avatars", refID: " my photo\t.png\n", expected: "avatars/myphoto.png"},
		{name: "trims reference slashes", reference: "/avatars/", refID: "u1", expected: "avatars/u1"},
		{name: "empty reference", reference: "", refID: "u1", wantErr: true},
		{name: "blank id", reference: "avatars", refID: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ObjectKey(tt.reference, tt.refID)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("demo.appspot.com", "avatars/u 1.png")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/avatars%2Fu%201.png?alt=media", got)
}

func TestObjectPath(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{
			name:     "round trip",
			url:      DownloadURL("demo", "avatars/u1.png"),
			expected: "avatars/u1.png",
		},
		{
			name:     "with token",
			url:      "https://firebasestorage.googleapis.com/v0/b/demo/o/docs%2Fa.pdf?alt=media&token=abc",
			expected: "docs/a.pdf",
		},
		{name: "no object marker", url: "https://example.com/file.png", wantErr: true},
		{name: "not media", url: "https://firebasestorage.googleapis.com/v0/b/demo/o/a.png", wantErr: true},
		{name: "bad escape", url: "https://x/o/%zz?alt=media", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ObjectPath(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestUploader_UploadAndRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("demo.appspot.com")
	uploader := NewUploader(store)

	link, err := uploader.Upload(ctx, "avatars", "user 1", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/avatars%2Fuser1?alt=media", link)

	obj, ok := store.Object("avatars/user1")
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, uploader.Remove(ctx, link))
	_, ok = store.Object("avatars/user1")
	assert.False(t, ok)

	err = uploader.Remove(ctx, link)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
