package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"office-locator-service/internal/platform/obs"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Subset of the S3 client used to read objects.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the dataset object from an S3 bucket.
type S3Source struct {
	Client s3GetObjectAPI
	Bucket string
	Key    string
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 uri %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("parse s3 uri %q: scheme must be s3", uri)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("parse s3 uri %q: bucket and key are required", uri)
	}
	return bucket, key, nil
}

// NewS3Source builds a source from an s3:// URI using the default AWS credential chain.
func NewS3Source(ctx context.Context, uri, region string) (*S3Source, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3Source{Client: s3.NewFromConfig(cfg), Bucket: bucket, Key: key}, nil
}

func (s *S3Source) FetchRawDataset(ctx context.Context) (_ string, err error) {
	defer obs.Time(ctx, "dataset.s3.Fetch")(&err)

	if s.Client == nil {
		return "", errors.New("fetch dataset: s3 client is nil")
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return "", fmt.Errorf("fetch dataset s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	raw, err := readDataset(out.Body)
	if err != nil {
		return "", fmt.Errorf("fetch dataset s3://%s/%s: read body: %w", s.Bucket, s.Key, err)
	}
	return raw, nil
}
