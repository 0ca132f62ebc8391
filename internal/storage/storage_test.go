// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/pkg/types"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	loc := types.Location{Bucket: "outputs", Key: "reports/doc.md"}
	require.NoError(t, store.Upload(ctx, loc, []byte("# Doc\n"), "text/markdown"))

	var buf bytes.Buffer
	n, err := store.Download(ctx, loc, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "# Doc\n", buf.String())

	info, err := store.Stat(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "s3://outputs/reports/doc.md", info.URI)
	assert.Equal(t, int64(6), info.ContentLength)
	assert.Equal(t, "text/markdown", info.ContentType)
	assert.Equal(t, "null", info.VersionID)
	assert.Len(t, info.ETag, 32)
	require.NotNil(t, info.LastModified)
}

func TestLocalUploadReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocal(root)
	require.NoError(t, err)

	loc := types.Location{Bucket: "b-1", Key: "x.md"}
	require.NoError(t, store.Upload(ctx, loc, []byte("old"), ""))
	require.NoError(t, store.Upload(ctx, loc, []byte("new"), ""))

	data, err := os.ReadFile(filepath.Join(root, "b-1", "x.md"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "b-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLocalErrors(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Stat(ctx, types.Location{Bucket: "in", Key: "missing.pdf"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Download(ctx, types.Location{Bucket: "in", Key: "missing.pdf"}, io.Discard)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Upload(ctx, types.Location{Bucket: "in", Key: "../../etc/passwd"}, nil, "")
	assert.ErrorContains(t, err, "escapes storage root")

	err = store.Upload(ctx, types.Location{Bucket: "..", Key: "x.md"}, nil, "")
	assert.ErrorContains(t, err, "invalid bucket name")

	_, err = NewLocal("")
	assert.Error(t, err)
}

// fakeS3 implements s3API in memory.
type fakeS3 struct {
	head    *s3.HeadObjectOutput
	body    string
	err     error
	lastPut *s3.PutObjectInput
	putBody string
}

func (f *fakeS3) HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.head, nil
}

func (f *fakeS3) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastPut = in
	data, _ := io.ReadAll(in.Body)
	f.putBody = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Stat(t *testing.T) {
	mod := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fake := &fakeS3{head: &s3.HeadObjectOutput{
		ETag:          aws.String(`"abc123"`),
		LastModified:  &mod,
		ContentLength: aws.Int64(42),
		ContentType:   aws.String("application/pdf"),
	}}
	store := &S3{client: fake}

	info, err := store.Stat(context.Background(), types.Location{Bucket: "in", Key: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, types.ObjectInfo{
		URI:           "s3://in/a.pdf",
		VersionID:     "null",
		ETag:          "abc123",
		LastModified:  &mod,
		ContentLength: 42,
		ContentType:   "application/pdf",
	}, info)
}

func TestS3DownloadAndUpload(t *testing.T) {
	fake := &fakeS3{body: "%PDF-1.7"}
	store := &S3{client: fake}
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := store.Download(ctx, types.Location{Bucket: "in", Key: "a.pdf"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "%PDF-1.7", buf.String())

	require.NoError(t, store.Upload(ctx, types.Location{Bucket: "out", Key: "a.md"}, []byte("# A\n"), "text/markdown"))
	assert.Equal(t, "out", aws.ToString(fake.lastPut.Bucket))
	assert.Equal(t, "a.md", aws.ToString(fake.lastPut.Key))
	assert.Equal(t, "text/markdown", aws.ToString(fake.lastPut.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(fake.lastPut.ContentLength))
	assert.Equal(t, "# A\n", fake.putBody)
}

func TestS3ErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
	}{
		{"no such key", &s3types.NoSuchKey{}, true},
		{"head not found", &s3types.NotFound{}, true},
		{"generic not found code", &smithy.GenericAPIError{Code: "NoSuchBucket"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"network", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &S3{client: &fakeS3{err: tt.err}}
			_, err := store.Download(context.Background(), types.Location{Bucket: "in", Key: "a.pdf"}, io.Discard)
			require.Error(t, err)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, ErrNotFound))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), types.StorageConfig{Backend: "ftp"}, Credentials{})
	assert.ErrorContains(t, err, "unknown storage backend")

	s, err := New(context.Background(), types.StorageConfig{Backend: types.StorageLocal, LocalRoot: t.TempDir()}, Credentials{})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	assert.True(t, Credentials{AccessKeyID: "id"}.Empty())
	assert.False(t, Credentials{AccessKeyID: "id", SecretAccessKey: "secret"}.Empty())
}
