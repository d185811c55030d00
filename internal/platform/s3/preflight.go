package s3

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBucketNotFound is returned for a referenced bucket that does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrBucketRegion is returned for a bucket outside the cluster region.
	ErrBucketRegion = errors.New("bucket is in another region")
)

// BucketChecker reports the region of a bucket.
type BucketChecker interface {
	BucketRegion(ctx context.Context, bucketName string) (string, error)
}

// CheckBuckets verifies that every bucket exists. When region is set, a
// bucket reporting a different region is an error as well. All problems
// are returned joined.
func CheckBuckets(ctx context.Context, checker BucketChecker, region string, buckets []string) error {
	var errs []error
	for _, bucket := range buckets {
		got, err := checker.BucketRegion(ctx, bucket)
		switch {
		case isNotFoundError(err):
			errs = append(errs, fmt.Errorf("%s: %w", bucket, ErrBucketNotFound))
		case err != nil:
			errs = append(errs, err)
		case region != "" && got != "" && got != region:
			errs = append(errs, fmt.Errorf("%s is in %s, cluster is in %s: %w", bucket, got, region, ErrBucketRegion))
		}
	}
	return errors.Join(errs...)
}
