package objectstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/share2teach-api/pkg/config"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080/3,01637037d6", NormalizeURL("127.0.0.1:8080/3,01637037d6"))
	assert.Equal(t, "https://cdn.example/x", NormalizeURL("https://cdn.example/x"))
	assert.Equal(t, "http://host/x", NormalizeURL("//host/x"))
	assert.Equal(t, "", NormalizeURL("  "))
}

func TestSeaweedFSPutGetDelete(t *testing.T) {
	var (
		uploaded    []byte
		uploadedCT  string
		deletedPath string
	)
	volume := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write(uploaded)
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusAccepted)
		}
	}))
	defer volume.Close()
	volumeHost := strings.TrimPrefix(volume.URL, "http://")

	master := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submit", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		uploaded, _ = io.ReadAll(file)
		uploadedCT = header.Header.Get("Content-Type")
		assert.Equal(t, "notes.txt", header.Filename)
		_, _ = w.Write([]byte(`{"fid":"3,01637037d6","fileName":"notes.txt","fileUrl":"` + volumeHost + `/3,01637037d6","size":5}`))
	}))
	defer master.Close()

	store := NewSeaweedFS(master.URL, time.Second, 0)
	ctx := context.Background()

	url, err := store.Put(ctx, "notes.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, volume.URL+"/3,01637037d6", url)
	assert.Equal(t, "text/plain", uploadedCT)

	data, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, url))
	assert.Equal(t, "/3,01637037d6", deletedPath)
}

func TestSeaweedFSGetEnforcesReadLimit(t *testing.T) {
	volume := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer volume.Close()

	_, err := NewSeaweedFS("localhost:9333", time.Second, 16).Get(context.Background(), volume.URL+"/3,01")
	require.ErrorIs(t, err, ErrTooLarge)

	data, err := NewSeaweedFS("localhost:9333", time.Second, 64).Get(context.Background(), volume.URL+"/3,01")
	require.NoError(t, err)
	assert.Len(t, data, 64)
}

func TestSeaweedFSSubmitError(t *testing.T) {
	master := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"no free volumes"}`))
	}))
	defer master.Close()

	_, err := NewSeaweedFS(master.URL, time.Second, 0).Put(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no free volumes")
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "localhost:5000/files")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "lesson plan.txt", "text/plain", []byte("body"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/files/lesson%20plan.txt", url)

	data, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "body", string(data))

	require.NoError(t, store.Delete(ctx, url))
	_, err = store.Get(ctx, url)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "http://elsewhere/x")
	assert.Error(t, err)
}

type failingStore struct{ calls int }

func (f *failingStore) Put(context.Context, string, string, []byte) (string, error) {
	f.calls++
	return "", errors.New("connection refused")
}
func (f *failingStore) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }
func (f *failingStore) Delete(context.Context, string) error     { return nil }

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	next := &failingStore{}
	b := NewBreaker("test", next, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.Put(ctx, "a", "", nil)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Put(ctx, "a", "", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, next.calls)
}

func TestBreakerTreatsNotFoundAsSuccess(t *testing.T) {
	b := NewBreaker("test", &failingStore{}, time.Minute)
	for i := 0; i < 10; i++ {
		_, err := b.Get(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestFactoryRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	store, err := New(context.Background(), config.StorageConfig{Driver: config.StorageSeaweedFS, SeaweedMaster: "localhost:9333", BreakerEnabled: true})
	require.NoError(t, err)
	_, ok := store.(*Breaker)
	assert.True(t, ok)
}
