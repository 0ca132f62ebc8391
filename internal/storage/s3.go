// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	defaultRegion = "us-east-1"

	// unversioned is reported for objects in buckets without versioning.
	unversioned = "null"
)

// s3API is the subset of the S3 client used here.
type s3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores objects in Amazon S3 or an S3-compatible service.
type S3 struct {
	client s3API
}

// NewS3 loads the AWS configuration and builds a client. Endpoint and
// PathStyle in cfg support MinIO and LocalStack.
func NewS3(ctx context.Context, cfg types.StorageConfig, creds Credentials) (*S3, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if !creds.Empty() {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return &S3{client: client}, nil
}

// Stat implements Store.
func (s *S3) Stat(ctx context.Context, loc types.Location) (types.ObjectInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return types.ObjectInfo{}, fmt.Errorf("head %s: %w", loc.URI(), classify(err))
	}

	info := types.ObjectInfo{
		URI:           loc.URI(),
		VersionID:     aws.ToString(out.VersionId),
		ETag:          strings.Trim(aws.ToString(out.ETag), `"`),
		LastModified:  out.LastModified,
		ContentLength: aws.ToInt64(out.ContentLength),
		ContentType:   aws.ToString(out.ContentType),
	}
	if info.VersionID == "" {
		info.VersionID = unversioned
	}
	return info, nil
}

// Download implements Store.
func (s *S3) Download(ctx context.Context, loc types.Location, w io.Writer) (int64, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", loc.URI(), classify(err))
	}
	defer out.Body.Close()

	n, err := io.Copy(w, out.Body)
	if err != nil {
		return n, fmt.Errorf("reading %s: %w", loc.URI(), err)
	}
	return n, nil
}

// Upload implements Store.
func (s *S3) Upload(ctx context.Context, loc types.Location, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", loc.URI(), classify(err))
	}
	return nil
}

// classify maps missing-object errors onto ErrNotFound, keeping the SDK
// error in the chain.
func classify(err error) error {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return errors.Join(ErrNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return errors.Join(ErrNotFound, err)
		}
	}
	return err
}
