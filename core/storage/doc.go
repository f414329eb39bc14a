// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so archived
// snapshots can be written to AWS S3 or a self-hosted MinIO, and so storage
// interactions can be mocked in unit tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the archive bucket (EnsureBucket).
//   - PutObject / GetObject: store and fetch snapshot documents.
//   - ListObjects: enumerate archived snapshots under a prefix.
//   - RemoveObjects: prune old snapshots beyond the retention limit.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
