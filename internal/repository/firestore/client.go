// Package firestore persists orders, upload records and users in Cloud
// Firestore, the document store the storefront originally ran on.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"juridico/internal/config"
)

const usersCollection = "users"

// NewClient creates a Firestore client for the configured project.
func NewClient(ctx context.Context, cfg config.StoreConfig) (*firestore.Client, error) {
	if cfg.FirestoreProject == "" {
		return nil, fmt.Errorf("firestore project must be provided")
	}
	client, err := firestore.NewClient(ctx, cfg.FirestoreProject)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return client, nil
}

func isNotFound(err error) bool {
	return grpcstatus.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return grpcstatus.Code(err) == codes.AlreadyExists
}
