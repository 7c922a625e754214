// In file: internal/video/storage_test.go
package video

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupabaseStorage_RequiresCredentials(t *testing.T) {
	assert.Nil(t, NewSupabaseStorage("", "key", "videos"))
	assert.Nil(t, NewSupabaseStorage("https://x.supabase.co", "", "videos"))

	s := NewSupabaseStorage("https://x.supabase.co", "key", "")
	require.NotNil(t, s)
	assert.Equal(t, "videos", s.bucket)
}

func TestUpload_SendsHeadersAndReturnsPublicURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "video/mp4", r.Header.Get("Content-Type"))
		assert.Equal(t, "true", r.Header.Get("x-upsert"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "clipdata", string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key", "videos")
	s.now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }

	publicURL, err := s.Upload(context.Background(), []byte("clipdata"), "my clip!.mp4", "video/mp4")
	require.NoError(t, err)

	// Unsafe characters are replaced and the path is date-partitioned.
	assert.True(t, strings.HasPrefix(gotPath, "/storage/v1/object/videos/2026/08/24/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, "_my_clip_.mp4"), gotPath)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/videos"+strings.TrimPrefix(gotPath, "/storage/v1/object/videos"), publicURL)
}

func TestUpload_SurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "key", "videos")
	_, err := s.Upload(context.Background(), []byte("x"), "a.mp4", "video/mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "Bucket not found")
}
