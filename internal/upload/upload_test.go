package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalIngestWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	backend := NewLocal(dir)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return at }

	ref, err := backend.Ingest(context.Background(), File{
		Name:        "photo.png",
		ContentType: "image/png",
		Data:        []byte("0123456789"),
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	wantName := fmt.Sprintf("%d-photo.png", at.UnixMilli())
	if ref != "/uploads/"+wantName {
		t.Fatalf("unexpected reference: %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, wantName))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "0123456789" {
		t.Fatalf("stored bytes mismatch: %q", data)
	}
}

func TestLocalIngestStripsDirectoryComponents(t *testing.T) {
	backend := NewLocal(t.TempDir())

	ref, err := backend.Ingest(context.Background(), File{
		Name: "../escape/photo.png",
		Data: []byte("x"),
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if filepath.Base(ref) != filepath.Clean(filepath.Base(ref)) {
		t.Fatalf("reference leaks path components: %q", ref)
	}
}

func TestIngestRejectsEmptyFileBothBackends(t *testing.T) {
	backends := map[string]Backend{
		"local": NewLocal(t.TempDir()),
		"s3":    &S3{client: &fakePutter{}, bucket: "b", region: "r", now: time.Now},
	}
	for name, backend := range backends {
		if _, err := backend.Ingest(context.Background(), File{Name: "e.png"}); !errors.Is(err, ErrNoFile) {
			t.Fatalf("%s: expected ErrNoFile, got %v", name, err)
		}
	}
}

func TestIngestRejectsOversizedFileBothBackends(t *testing.T) {
	putter := &fakePutter{}
	backends := map[string]Backend{
		"local": NewLocal(t.TempDir()),
		"s3":    &S3{client: putter, bucket: "b", region: "r", now: time.Now},
	}
	// Size is reported by the client; the payload itself stays small.
	oversized := File{Name: "big.png", Size: MaxFileSize + 1, Data: []byte("x")}

	for name, backend := range backends {
		if _, err := backend.Ingest(context.Background(), oversized); !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("%s: expected ErrFileTooLarge, got %v", name, err)
		}
	}
	if putter.calls != 0 {
		t.Fatalf("oversized file reached the transport (%d calls)", putter.calls)
	}
}

type fakePutter struct {
	calls int
	err   error
	input *s3.PutObjectInput
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3IngestBuildsPublicURL(t *testing.T) {
	putter := &fakePutter{}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := &S3{
		client: putter,
		bucket: "shop-assets",
		region: "eu-west-1",
		now:    func() time.Time { return at },
	}

	ref, err := backend.Ingest(context.Background(), File{
		Name:        "photo.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	wantKey := fmt.Sprintf("products/%d-photo.png", at.UnixMilli())
	wantURL := "https://shop-assets.s3.eu-west-1.amazonaws.com/" + wantKey
	if ref != wantURL {
		t.Fatalf("unexpected url: %q want %q", ref, wantURL)
	}
	if putter.calls != 1 {
		t.Fatalf("expected one PutObject call, got %d", putter.calls)
	}
	if got := *putter.input.Key; got != wantKey {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := *putter.input.ContentType; got != "image/png" {
		t.Fatalf("unexpected content type: %q", got)
	}
}

func TestS3IngestWrapsTransportError(t *testing.T) {
	putter := &fakePutter{err: errors.New("503 slow down")}
	backend := &S3{client: putter, bucket: "b", region: "r", now: time.Now}

	_, err := backend.Ingest(context.Background(), File{Name: "p.png", Data: []byte("x")})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
