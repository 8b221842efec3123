package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// fakeS3 is an in-memory S3Client for tests.
type fakeS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func notFoundErr() error {
	return &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, notFoundErr()
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.contentTypes[*in.Key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, notFoundErr()
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3RoundTrip(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "doctalk-episodes", "runs/abc")
	ctx := context.Background()

	if err := WriteFile(ctx, store, "final_podcast.mp3", []byte("audio")); err != nil {
		t.Fatal(err)
	}

	// Key carries the prefix.
	if _, ok := fake.objects["runs/abc/final_podcast.mp3"]; !ok {
		t.Fatalf("object not stored under prefixed key: %v", fake.objects)
	}

	got, err := ReadFile(ctx, store, "final_podcast.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "audio" {
		t.Fatalf("got %q", got)
	}
}

func TestS3ContentTypes(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "bucket", "")
	ctx := context.Background()

	tests := []struct {
		path string
		want string
	}{
		{"final_podcast.mp3", "audio/mpeg"},
		{"doctalk_video.mp4", "video/mp4"},
		{"generated_image_0.png", "image/png"},
		{"script.txt", "text/plain; charset=utf-8"},
		{"misc.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if err := WriteFile(ctx, store, tt.path, []byte("x")); err != nil {
			t.Fatal(err)
		}
		if got := fake.contentTypes[tt.path]; got != tt.want {
			t.Errorf("%s: content type %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestS3ReadNotExist(t *testing.T) {
	store := NewS3(newFakeS3(), "bucket", "")

	_, err := store.Read(context.Background(), "missing.mp3")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestS3Exists(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "bucket", "")
	ctx := context.Background()

	ok, err := store.Exists(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected false")
	}

	fake.objects["present"] = []byte("x")
	ok, err = store.Exists(ctx, "present")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}
