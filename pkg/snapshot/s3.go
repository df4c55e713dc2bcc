package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/elix-dev/elix/internal/errors"
)

// Object metadata keys.
const (
	metaElement    = "elix-element"
	metaGeneration = "elix-generation"
	metaCreatedAt  = "elix-created-at"
)

// S3API is the subset of the S3 client that S3Store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Store stores snapshots as objects under a bucket prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates an S3Store. prefix is prepended to every key, for
// example "snapshots/".
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// S3Config describes how to reach S3.
type S3Config struct {
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible services.
	Endpoint string

	// PathStyle forces path-style addressing, which most S3-compatible
	// services need.
	PathStyle bool
}

// NewS3Client builds an S3 client from cfg. Credentials come from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E030").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

func (s *S3Store) objectKey(key string) string {
	return s.prefix + key + htmlExt
}

// Put uploads snap, replacing any object with the same key.
func (s *S3Store) Put(ctx context.Context, snap Snapshot) error {
	if err := ValidateKey(snap.Key); err != nil {
		return err
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(snap.Key)),
		Body:        bytes.NewReader(snap.HTML),
		ContentType: aws.String(ContentTypeHTML),
		Metadata: map[string]string{
			metaElement:    snap.Element,
			metaGeneration: strconv.FormatUint(snap.Generation, 10),
			metaCreatedAt:  snap.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return errors.New("E030").WithDetailf("uploading %s", snap.Key).Wrap(err)
	}
	return nil
}

// Get downloads the snapshot stored under key.
func (s *S3Store) Get(ctx context.Context, key string) (Snapshot, error) {
	if err := ValidateKey(key); err != nil {
		return Snapshot{}, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if stderrors.As(err, &missing) {
			return Snapshot{}, errors.New("E031").WithDetailf("key %q", key)
		}
		return Snapshot{}, errors.New("E030").WithDetailf("downloading %s", key).Wrap(err)
	}
	defer out.Body.Close()

	html, err := io.ReadAll(out.Body)
	if err != nil {
		return Snapshot{}, errors.New("E030").WithDetailf("reading %s", key).Wrap(err)
	}

	snap := Snapshot{
		Key:     key,
		Element: out.Metadata[metaElement],
		HTML:    html,
	}
	if g, err := strconv.ParseUint(out.Metadata[metaGeneration], 10, 64); err == nil {
		snap.Generation = g
	}
	if t, err := time.Parse(time.RFC3339, out.Metadata[metaCreatedAt]); err == nil {
		snap.CreatedAt = t
	}
	return snap, nil
}

// List returns the stored keys in sorted order.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E030").WithDetail("listing snapshots").Wrap(err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || !strings.HasSuffix(*obj.Key, htmlExt) {
				continue
			}
			key := strings.TrimSuffix(strings.TrimPrefix(*obj.Key, s.prefix), htmlExt)
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the snapshot stored under key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return errors.New("E030").WithDetailf("deleting %s", key).Wrap(err)
	}
	return nil
}
