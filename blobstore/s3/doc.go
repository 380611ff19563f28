// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore
// for graph snapshots.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("graphs/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	err = g.Snapshot(ctx, store, "2024-06-01")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads through the feature/s3/manager uploader
//   - Automatic pagination for listing
//   - Optional DynamoDB commit log for the CURRENT snapshot pointer
package s3
