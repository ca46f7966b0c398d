package storage

import (
	"bytes"
	"io"
	"testing"
)

func newTestDisk(t *testing.T) *localDisk {
	t.Helper()
	return newLocalDisk(t.TempDir(), "http://localhost:8080/storage")
}

func TestLocalPutGetDelete(t *testing.T) {
	d := newTestDisk(t)

	content := []byte("fake image bytes")
	if err := d.Put("products/abc.jpg", content); err != nil {
		t.Fatalf("put: %v", err)
	}

	if !d.Exists("products/abc.jpg") {
		t.Fatal("file should exist after Put")
	}

	got, err := d.Get("products/abc.jpg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: %q", got)
	}

	size, err := d.Size("products/abc.jpg")
	if err != nil || size != int64(len(content)) {
		t.Errorf("size = %d (%v), want %d", size, err, len(content))
	}

	if err := d.Delete("products/abc.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if d.Exists("products/abc.jpg") {
		t.Error("file should be gone after Delete")
	}

	// Deleting a missing file is not an error.
	if err := d.Delete("products/abc.jpg"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestLocalPutStream(t *testing.T) {
	d := newTestDisk(t)

	if err := d.PutStream("uploads/stream.bin", bytes.NewReader([]byte("streamed"))); err != nil {
		t.Fatalf("put stream: %v", err)
	}

	rc, err := d.GetStream("uploads/stream.bin")
	if err != nil {
		t.Fatalf("get stream: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "streamed" {
		t.Errorf("content = %q", got)
	}
}

func TestLocalURL(t *testing.T) {
	d := newTestDisk(t)
	if got := d.URL("products/abc.jpg"); got != "http://localhost:8080/storage/products/abc.jpg" {
		t.Errorf("url = %q", got)
	}
}

func TestLocalRejectsPathTraversal(t *testing.T) {
	d := newTestDisk(t)

	// A leading "../" is folded under the virtual root, so the write must
	// land inside the disk root rather than escaping it.
	if err := d.Put("../escape.txt", []byte("nope")); err == nil {
		if !d.Exists("escape.txt") {
			t.Error("write landed outside the disk root")
		}
	}
}
