package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestWriteAndRead(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	const data = "clip data"
	if err := WriteFile(ctx, s, "clips/output_Speaker_1_0.mp3", []byte(data)); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(ctx, s, "clips/output_Speaker_1_0.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != data {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestReadNotExist(t *testing.T) {
	s := newTestLocal(t)

	_, err := s.Read(context.Background(), "no-such-file")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestPath(t *testing.T) {
	s := newTestLocal(t)

	want := filepath.Join(s.Root(), "episode", "final_podcast.mp3")
	if got := s.Path("episode/final_podcast.mp3"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}

func TestExists(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected false for missing file")
	}

	if err := WriteFile(ctx, s, "present", nil); err != nil {
		t.Fatal(err)
	}

	ok, err = s.Exists(ctx, "present")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected true for existing file")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	// Delete a file that doesn't exist — should succeed.
	if err := s.Delete(ctx, "ghost"); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(ctx, s, "tmp", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "tmp"); err != nil {
		t.Fatal(err)
	}

	ok, err := s.Exists(ctx, "tmp")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("file should be gone after delete")
	}

	// Delete again — idempotent.
	if err := s.Delete(ctx, "tmp"); err != nil {
		t.Fatal(err)
	}
}

func TestCopy(t *testing.T) {
	src := newTestLocal(t)
	dst := newTestLocal(t)
	ctx := context.Background()

	if err := WriteFile(ctx, src, "final_podcast.mp3", []byte("episode")); err != nil {
		t.Fatal(err)
	}
	if err := Copy(ctx, dst, src, "final_podcast.mp3"); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(ctx, dst, "final_podcast.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "episode" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteTruncates(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	w, err := s.Write(ctx, "f")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "long content here")
	w.Close()

	w, err = s.Write(ctx, "f")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "short")
	w.Close()

	got, err := ReadFile(ctx, s, "f")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "short" {
		t.Fatalf("got %q, want %q", got, "short")
	}
}
