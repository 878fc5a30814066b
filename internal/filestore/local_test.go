package filestore

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

func localFixture(t *testing.T) Store {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store, err := NewLocal(t.TempDir(), log)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	return store
}

func TestLocalSaveOpenRoundTrip(t *testing.T) {
	store := localFixture(t)
	ctx := context.Background()

	if err := store.Save(ctx, "abc/content.jpg", strings.NewReader("payload")); err != nil {
		t.Fatalf("save: %v", err)
	}
	rc, err := store.Open(ctx, "abc/content.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("read %q, want %q", data, "payload")
	}
}

func TestLocalListWithPattern(t *testing.T) {
	store := localFixture(t)
	ctx := context.Background()

	for _, name := range []string{"content.jpg", "thumb.jpg", "original__scan.png"} {
		if err := store.Save(ctx, "abc/"+name, strings.NewReader("x")); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	all, err := store.List(ctx, "abc", "*")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sort.Strings(all)
	if len(all) != 3 {
		t.Fatalf("list = %v, want 3 names", all)
	}

	jpgs, err := store.List(ctx, "abc", "*.jpg")
	if err != nil {
		t.Fatalf("list jpg: %v", err)
	}
	if len(jpgs) != 2 {
		t.Fatalf("jpg list = %v, want 2 names", jpgs)
	}

	empty, err := store.List(ctx, "missing", "*")
	if err != nil {
		t.Fatalf("list missing: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("missing prefix should list nothing, got %v", empty)
	}
}

func TestLocalDeletePrefix(t *testing.T) {
	store := localFixture(t)
	ctx := context.Background()

	if err := store.Save(ctx, "abc/content.jpg", strings.NewReader("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeletePrefix(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, "abc/content.jpg"); err == nil {
		t.Fatalf("open after delete should fail")
	}
}

func TestLocalNeutralizesTraversalKeys(t *testing.T) {
	store := localFixture(t)
	ctx := context.Background()

	// Traversal segments are stripped; the file lands under the root.
	if err := store.Save(ctx, "../../outside.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	rc, err := store.Open(ctx, "outside.txt")
	if err != nil {
		t.Fatalf("open cleaned key: %v", err)
	}
	rc.Close()
}
