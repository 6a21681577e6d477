// Package storage wraps the MinIO client used to keep off-site copies of the
// dormitory data files.
//
// The Client interface is the subset of operations the backup and integrity
// features need, so tests can substitute core/storage/mocks. EnsureBucket
// creates the target bucket on first use.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
