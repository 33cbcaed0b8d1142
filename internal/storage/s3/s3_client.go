// Package s3 stores customer documents in an S3-compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"juridico/internal/config"
	"juridico/internal/port"
	"juridico/internal/resilience"
)

// Customer documents are small; a single part covers almost all of them.
const uploadPartSize = 8 << 20

type bucket struct {
	name      string
	api       *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewS3Client returns an ObjectStorage bound to cfg.Bucket. A custom endpoint
// switches to path-style addressing for MinIO and LocalStack.
func NewS3Client(ctx context.Context, cfg *config.S3Config) (port.ObjectStorage, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &bucket{
		name:      cfg.Bucket,
		api:       api,
		presigner: s3.NewPresignClient(api),
		uploader: manager.NewUploader(api, func(u *manager.Uploader) {
			u.PartSize = uploadPartSize
		}),
	}, nil
}

func loadAWSConfig(ctx context.Context, cfg *config.S3Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		static := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(static))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading aws config: %w", err)
	}
	return awsCfg, nil
}

func (b *bucket) Put(ctx context.Context, input port.ObjectInput) (*port.StoredObject, error) {
	put := &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}

	out, err := b.uploader.Upload(ctx, put)
	if err != nil {
		return nil, classify(fmt.Errorf("s3 put %s: %w", input.Key, err))
	}
	return &port.StoredObject{URL: out.Location, ETag: aws.ToString(out.ETag)}, nil
}

func (b *bucket) Delete(ctx context.Context, key string) error {
	_, err := b.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify(fmt.Errorf("s3 delete %s: %w", key, err))
	}
	return nil
}

func (b *bucket) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := b.presigner.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(b.name), Key: aws.String(key)},
		s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return req.URL, nil
}

// classify marks client faults (missing bucket, denied access) as permanent.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultClient {
		return resilience.Permanent(err)
	}
	return err
}
