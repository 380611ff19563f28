// Package blobstore provides the object storage used for graph snapshots.
//
// BlobStore is the interface for reading and writing named blobs (table
// images, manifests). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system with atomic, rename-based writes
//   - MemoryStore: in-memory store for tests
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with multipart uploads
//   - s3.DDBCommitStore: S3 plus DynamoDB for atomic CURRENT pointer commits
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
