package minio

import (
	"bufio"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/photostore"
)

type storedObject struct {
	data        []byte
	contentType string
}

// fakeS3 implements the handful of path-style S3 calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string]storedObject
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: map[string]bool{}, objects: map[string]storedObject{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			f.buckets[bucket] = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
		return
	}

	id := bucket + "/" + key
	switch r.Method {
	case http.MethodPut:
		body, err := readBody(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.objects[id] = storedObject{data: body, contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", etag(body))
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		obj, ok := f.objects[id]
		if !ok {
			noSuchKey(w, r, key)
			return
		}
		w.Header().Set("ETag", etag(obj.data))
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(obj.data)
		}
	case http.MethodDelete:
		delete(f.objects, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func noSuchKey(w http.ResponseWriter, r *http.Request, key string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusNotFound)
	if r.Method == http.MethodHead {
		return
	}
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>%s</Key></Error>`, key)
}

func etag(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// readBody returns the object payload, unwrapping aws-chunked framing when used.
func readBody(r *http.Request) ([]byte, error) {
	chunked := strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked") ||
		r.Header.Get("X-Amz-Decoded-Content-Length") != ""
	if !chunked {
		return io.ReadAll(r.Body)
	}

	var out bytes.Buffer
	br := bufio.NewReader(r.Body)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeField, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad chunk size %q: %w", line, err)
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return nil, err
		}
		if _, err := br.ReadString('\n'); err != nil {
			return nil, err
		}
	}
}

func connectFake(t *testing.T) (*MinioPhotoStore, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	endpoint := strings.TrimPrefix(server.URL, "http://")
	store, err := Connect(context.Background(), endpoint, "us-east-1", "photos", "", "", false)
	require.NoError(t, err)
	return store, fake
}

func TestConnectCreatesMissingBucket(t *testing.T) {
	_, fake := connectFake(t)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.True(t, fake.buckets["photos"])
}

func TestMinioPhotoStoreSaveAndGet(t *testing.T) {
	store, fake := connectFake(t)
	ctx := context.Background()
	imageData := []byte("fake jpeg bytes")

	key, err := store.Save(ctx, "dish", "image/jpeg", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "dish_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	fake.mu.Lock()
	stored, ok := fake.objects["photos/"+key]
	fake.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, imageData, stored.data)

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, "image/jpeg", mimeType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestMinioPhotoStoreGetMissing(t *testing.T) {
	store, _ := connectFake(t)

	_, _, err := store.Get(context.Background(), "label_missing.png")
	assert.ErrorIs(t, err, photostore.ErrNotFound)
}

func TestMinioPhotoStoreDelete(t *testing.T) {
	store, fake := connectFake(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "label", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	fake.mu.Lock()
	_, ok := fake.objects["photos/"+key]
	fake.mu.Unlock()
	assert.False(t, ok)
}
