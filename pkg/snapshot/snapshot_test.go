package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"list-box", true},
		{"list-box/home", true},
		{"", false},
		{"/etc/passwd", false},
		{"../up", false},
		{"a/../b", false},
		{"a//b", false},
		{`a\b`, false},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateKey(%q) = %v, want ok=%v", tt.key, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrStore) {
			t.Errorf("ValidateKey(%q) error is not E030: %v", tt.key, err)
		}
	}
}

// storeContract runs the behavior every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	snap := Snapshot{
		Key:        "list-box/home",
		Element:    "elix-list-box",
		Generation: 4,
		CreatedAt:  created,
		HTML:       []byte(`<elix-list-box role="listbox"></elix-list-box>`),
	}
	if err := store.Put(ctx, snap); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(ctx, Snapshot{Key: "a", HTML: []byte("<a></a>"), CreatedAt: created}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "list-box/home")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "list-box/home"}, keys); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want E031", err)
	}
	if err := store.Put(ctx, Snapshot{Key: "../escape"}); !errors.Is(err, ErrStore) {
		t.Errorf("Put() with bad key error = %v, want E030", err)
	}
}

func TestDiskStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	storeContract(t, store)

	if _, err := os.Stat(filepath.Join(dir, "list-box", "home.html")); err != nil {
		t.Errorf("html file missing: %v", err)
	}
}

func TestDiskStoreWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bare.html"), []byte("<p></p>"), 0644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewDiskStore(dir)
	snap, err := store.Get(context.Background(), "bare")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(snap.HTML) != "<p></p>" || snap.Key != "bare" {
		t.Errorf("Get() = %+v", snap)
	}
}

type fakeS3 struct {
	bucket  string
	objects map[string]*s3.PutObjectInput
	bodies  map[string][]byte
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: map[string]*s3.PutObjectInput{}, bodies: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, errors.New("wrong bucket")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = in
	f.bodies[key] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	obj, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(f.bodies[key])),
		ContentType: obj.ContentType,
		Metadata:    obj.Metadata,
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	delete(f.bodies, key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3("site")
	store := NewS3Store(fake, "site", "snapshots/")
	storeContract(t, store)

	obj, ok := fake.objects["snapshots/list-box/home.html"]
	if !ok {
		t.Fatalf("object not stored under prefix; have %v", fake.objects)
	}
	if aws.ToString(obj.ContentType) != ContentTypeHTML {
		t.Errorf("content type = %q", aws.ToString(obj.ContentType))
	}
	if obj.Metadata[metaGeneration] != "4" {
		t.Errorf("generation metadata = %q", obj.Metadata[metaGeneration])
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); !errors.Is(err, ErrStore) {
		t.Errorf("envCredentials() error = %v, want E030", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil || creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("envCredentials() = %+v, %v", creds, err)
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000", PathStyle: true})
	opts := client.Options()
	if opts.Region != "us-east-1" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("client options = region %q, path style %v, endpoint %q",
			opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
}
