package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interviewprep/internal/config"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("audio/12", "Answer.WEBM")
	if !strings.HasPrefix(key, "audio/12/") || !strings.HasSuffix(key, ".webm") {
		t.Fatalf("unexpected key %q", key)
	}
	if ObjectKey("audio/12", "a.webm") == key {
		t.Fatal("expected unique keys")
	}
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/etc/passwd", "../x", "a/../../x", "a\\b", "."} {
		if _, err := cleanKey(bad); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected %q to be rejected, got %v", bad, err)
		}
	}
	if got, err := cleanKey("a/./b.txt"); err != nil || got != "a/b.txt" {
		t.Fatalf("unexpected clean result %q, %v", got, err)
	}
}

func TestLocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}
	ctx := context.Background()

	obj, err := s.Put(ctx, "video/1/clip.mp4", strings.NewReader("frames"), 6, "video/mp4")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if obj.Size != 6 || obj.Key != "video/1/clip.mp4" {
		t.Fatalf("unexpected object %+v", obj)
	}

	rc, err := s.Get(ctx, obj.Key)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "frames" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := s.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Get(ctx, obj.Key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if err := s.Delete(ctx, obj.Key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound on second delete, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStore_FailedWriteLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewLocalStore(dir)

	if _, err := s.Put(context.Background(), "audio/1/a.webm", failingReader{}, 10, "audio/webm"); err == nil {
		t.Fatal("expected write error")
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "audio", "1"))
	if len(entries) != 0 {
		t.Fatalf("expected no files after failed write, found %d", len(entries))
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Put(ctx, "a.txt", strings.NewReader("x"), 1, "text/plain"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "local", UploadDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := s.(*LocalStore); !ok {
		t.Fatalf("expected LocalStore, got %T", s)
	}
	if _, err := New(context.Background(), config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewMinioStore(t *testing.T) {
	s, err := NewMinioStore(config.StorageConfig{MinioEndpoint: "localhost:9000", MinioBucket: "b"})
	if err != nil {
		t.Fatalf("NewMinioStore returned error: %v", err)
	}
	if s.bucket != "b" {
		t.Fatalf("unexpected bucket %q", s.bucket)
	}
	if _, err := s.Put(context.Background(), "../escape", strings.NewReader(""), 0, ""); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
