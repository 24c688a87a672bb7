// Package storage wraps the MinIO client used as the export sink.
//
// Comparison CSVs can be copied out to an S3 compatible bucket. The Client
// interface covers the handful of operations involved, so tests swap in
// the testify mock from core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
//	err = storage.PutBytes(ctx, client, cfg.Storage.Bucket, "exports/7656/a_b.csv", "text/csv", data)
package storage
