package checks

import (
	"context"
	"fmt"

	"tracker-comparer/core/storage"
)

// CheckBucket verifies the export bucket exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) Check {
	name := "storage"
	if client == nil {
		return Check{Name: name, Status: StatusDisabled, Detail: "no storage client"}
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return failed(name, fmt.Errorf("failed to check bucket existence: %w", err))
	}
	if !exists {
		return Check{Name: name, Status: StatusWarning, Detail: fmt.Sprintf("bucket %s does not exist", bucket), Missing: []string{bucket}}
	}
	return Check{Name: name, Status: StatusOK, Detail: bucket}
}

// FixBucket creates the export bucket.
func FixBucket(ctx context.Context, client storage.Client, bucket, region string) error {
	if client == nil {
		return fmt.Errorf("no storage client")
	}
	return storage.EnsureBucket(ctx, client, bucket, region)
}
