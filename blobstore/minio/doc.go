// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible storage systems (Ceph,
// SeaweedFS, Garage) and is the usual target for graph snapshots in
// air-gapped deployments.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "graphs", minioblob.WithPrefix("europe/"))
//	err = g.Snapshot(ctx, store, "2024-06-01")
package minio
