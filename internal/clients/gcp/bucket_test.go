package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

const testBucket = "test-bucket"

// fakeGCS serves the object download and list endpoints the storage
// client hits in emulator mode, backed by an in-memory object map.
type fakeGCS struct {
	objects map[string][]byte
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// JSON API object listing.
	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/storage/v1/b/"+testBucket+"/o") {
		prefix := r.URL.Query().Get("prefix")
		type item struct {
			Name string `json:"name"`
		}
		resp := struct {
			Kind  string `json:"kind"`
			Items []item `json:"items"`
		}{Kind: "storage#objects"}
		for name := range f.objects {
			if strings.HasPrefix(name, prefix) {
				resp.Items = append(resp.Items, item{Name: name})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	// Media download.
	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/"+testBucket+"/") {
		name := strings.TrimPrefix(r.URL.Path, "/"+testBucket+"/")
		data, ok := f.objects[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("X-Goog-Generation", "1")
		w.Header().Set("X-Goog-Metageneration", "1")
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)

		// Stream in chunks with flushes so the body cannot be fully
		// buffered before the handler returns.
		flusher, _ := w.(http.Flusher)
		const chunk = 256 << 10
		for off := 0; off < len(data); off += chunk {
			end := off + chunk
			if end > len(data) {
				end = len(data)
			}
			if _, err := w.Write(data[off:end]); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		return
	}

	http.NotFound(w, r)
}

func largePayload() []byte {
	data := make([]byte, 8<<20)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func bucketFixture(t *testing.T, objects map[string][]byte) *bucketStore {
	t.Helper()
	srv := httptest.NewServer(&fakeGCS{objects: objects})
	t.Cleanup(srv.Close)
	t.Setenv("STORAGE_EMULATOR_HOST", strings.TrimPrefix(srv.URL, "http://"))

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store, err := NewBucketStore(log, testBucket)
	if err != nil {
		t.Fatalf("new bucket store: %v", err)
	}
	bs, ok := store.(*bucketStore)
	if !ok {
		t.Fatalf("store is %T, want *bucketStore", store)
	}
	t.Cleanup(func() { _ = bs.client.Close() })
	return bs
}

func TestBucketOpenReaderOutlivesOpen(t *testing.T) {
	payload := largePayload()
	store := bucketFixture(t, map[string][]byte{"abc/content.jpg": payload})

	rc, err := store.Open(context.Background(), "abc/content.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	// The whole body must be readable after Open has returned; the
	// read context may only be cancelled on Close.
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read after Open returned: got %d bytes then %v", len(data), err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("read %d bytes, want %d intact", len(data), len(payload))
	}
}

func TestBucketOpenMissingObject(t *testing.T) {
	store := bucketFixture(t, map[string][]byte{})
	if _, err := store.Open(context.Background(), "abc/missing.jpg"); err == nil {
		t.Fatalf("expected error for missing object")
	}
}

func TestBucketListMatchesPattern(t *testing.T) {
	store := bucketFixture(t, map[string][]byte{
		"abc/content.jpg":        []byte("a"),
		"abc/thumb.jpg":          []byte("b"),
		"abc/original__scan.png": []byte("c"),
		"other/content.jpg":      []byte("d"),
		"abc/nested/notes.txt":   []byte("e"),
	})

	jpgs, err := store.List(context.Background(), "abc", "*.jpg")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jpgs) != 2 {
		t.Fatalf("jpg list = %v, want 2 names", jpgs)
	}
	for _, name := range jpgs {
		if !strings.HasSuffix(name, ".jpg") {
			t.Fatalf("unexpected name %q", name)
		}
	}
}
