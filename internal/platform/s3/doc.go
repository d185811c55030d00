// Package s3 checks the object storage buckets referenced by a stack.
//
// Thanos, loki and the prometheus thanos sidecar write to S3 buckets that
// must exist before the charts start. [CheckBuckets] runs a HeadBucket per
// bucket with the AWS default credential chain so apply fails early with a
// clear message instead of crash-looping pods.
package s3
