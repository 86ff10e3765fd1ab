// Package s3 provides a small client for S3-compatible object storage.
//
// It is used to publish exported topology documents and run traces. Any
// endpoint speaking the S3 protocol works; path-style addressing is
// available for stores that do not support virtual-hosted buckets.
package s3
