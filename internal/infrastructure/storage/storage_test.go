package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		contentType string
		ext         string
	}{
		{"image/jpeg", ".jpg"},
		{"image/jpg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"application/octet-stream", ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			name := objectName("/listings/", tt.contentType, now)
			assert.True(t, strings.HasPrefix(name, "listings/"), name)
			assert.True(t, strings.HasSuffix(name, "-20240301093000"+tt.ext), name)
		})
	}
}

func TestObjectFromURL(t *testing.T) {
	c := &CloudStorageClient{bucketName: "thapar-olx"}

	name, err := c.objectFromURL(publicURLPrefix + "thapar-olx/listings/a.png")
	require.NoError(t, err)
	assert.Equal(t, "listings/a.png", name)

	for _, bad := range []string{
		"https://example.com/listings/a.png",
		publicURLPrefix + "other-bucket/listings/a.png",
		publicURLPrefix + "thapar-olx/",
	} {
		_, err := c.objectFromURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestMemoryAssetStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAssetStore("http://localhost:8080/dev/uploads/")

	url, err := m.UploadFile(ctx, strings.NewReader("pixels"), "image/png", "listings")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/dev/uploads/listings/"))

	data, ok := m.Object(url)
	require.True(t, ok)
	assert.Equal(t, "pixels", string(data))

	_, ok = m.ObjectByName(strings.TrimPrefix(url, "http://localhost:8080/dev/uploads/"))
	assert.True(t, ok)

	require.NoError(t, m.DeleteFile(ctx, url))
	_, ok = m.Object(url)
	assert.False(t, ok)
}

func TestNewCloudStorageClient_UsesGivenOptions(t *testing.T) {
	ctx := context.Background()

	_, err := NewCloudStorageClient(ctx, "listing-images", option.WithCredentialsJSON([]byte("not json")))
	assert.Error(t, err)

	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"listing-images","cors":[{"origin":["*"]}]}`))
	}))
	defer srv.Close()

	client, err := NewCloudStorageClient(ctx, "listing-images",
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL+"/storage/v1/"),
	)
	require.NoError(t, err)
	defer client.Close()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, paths)
	assert.Contains(t, paths[0], "/b/listing-images")
}
