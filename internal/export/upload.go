package export

import (
	"context"
	"fmt"
	"path"
)

// Uploader stores a JSON object. *s3.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, data []byte) error
}

// Upload marshals v and stores it as prefix/name in bucket.
func Upload(ctx context.Context, u Uploader, bucket, prefix, name string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	key := path.Join(prefix, name)
	if err := u.Upload(ctx, bucket, key, data); err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, bucket, err)
	}
	return key, nil
}
