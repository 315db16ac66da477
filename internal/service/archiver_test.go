package service

import (
	"errors"
	"strings"
	"testing"
)

func TestNewArchiver_DisabledWithoutBucket(t *testing.T) {
	if a := NewArchiver(&fakeObjectStorage{}, " "); a != nil {
		t.Fatalf("expected nil archiver without bucket")
	}
	if a := NewArchiver(nil, "archive"); a != nil {
		t.Fatalf("expected nil archiver without storage")
	}

	var a *Archiver
	a.Archive("ignored.json", map[string]string{"k": "v"})
	a.Wait()
}

func TestArchiver_UploadsJSON(t *testing.T) {
	storage := &fakeObjectStorage{}
	a := NewArchiver(storage, "archive")

	a.Archive("doc.json", map[string]string{"name": "Kyoto"})
	a.Wait()

	objects := storage.uploaded()
	if len(objects) != 1 {
		t.Fatalf("expected one upload, got %d", len(objects))
	}
	if !strings.Contains(string(objects[0].body), `"name":"Kyoto"`) {
		t.Fatalf("unexpected body %s", objects[0].body)
	}
}

func TestArchiver_UploadFailureIsSwallowed(t *testing.T) {
	storage := &fakeObjectStorage{err: errors.New("bucket gone")}
	a := NewArchiver(storage, "archive")

	a.Archive("doc.json", map[string]int{"n": 1})
	a.Wait()

	if len(storage.uploaded()) != 0 {
		t.Fatalf("expected nothing stored")
	}
}
