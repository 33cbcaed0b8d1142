// Package gcs stores customer documents in a Google Cloud Storage bucket
// (the Firebase Storage bucket the storefront used before).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"juridico/internal/config"
	"juridico/internal/port"
	"juridico/internal/resilience"
)

type gcsClient struct {
	bucket      string
	signerEmail string
	client      *storage.Client
}

// NewGCSClient creates a GCS-backed ObjectStorage implementation.
func NewGCSClient(ctx context.Context, cfg *config.GCSConfig) (port.ObjectStorage, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	return &gcsClient{
		bucket:      cfg.Bucket,
		signerEmail: cfg.SignerEmail,
		client:      client,
	}, nil
}

func (c *gcsClient) Put(ctx context.Context, input port.ObjectInput) (*port.StoredObject, error) {
	w := c.client.Bucket(c.bucket).Object(input.Key).NewWriter(ctx)
	w.ContentType = input.ContentType

	if _, err := io.Copy(w, input.Body); err != nil {
		_ = w.Close()
		return nil, classify(fmt.Errorf("gcs upload: %w", err))
	}
	if err := w.Close(); err != nil {
		return nil, classify(fmt.Errorf("gcs upload close: %w", err))
	}

	return &port.StoredObject{
		URL:  objectURL(c.bucket, input.Key),
		ETag: w.Attrs().Etag,
	}, nil
}

func (c *gcsClient) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return classify(fmt.Errorf("gcs delete: %w", err))
	}
	return nil
}

func (c *gcsClient) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	}
	if c.signerEmail != "" {
		opts.GoogleAccessID = c.signerEmail
	}
	signed, err := c.client.Bucket(c.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("gcs presign: %w", err)
	}
	return signed, nil
}

func objectURL(bucket, key string) string {
	return (&url.URL{
		Scheme: "https",
		Host:   "storage.googleapis.com",
		Path:   "/" + bucket + "/" + key,
	}).String()
}

// classify marks 4xx API responses as permanent, except 408 and 429.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 &&
		apiErr.Code != http.StatusRequestTimeout && apiErr.Code != http.StatusTooManyRequests {
		return resilience.Permanent(err)
	}
	return err
}
