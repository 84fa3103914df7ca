// Package logarchive probes the centralized log storage buckets that the
// landing zone provisions in the log archive account.
package logarchive

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// API is the surface the validation stage needs from the log archive.
type API interface {
	// BucketExists reports whether a bucket exists and is reachable with
	// the current credentials.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// BucketEncrypted reports whether default encryption is configured on
	// the bucket.
	BucketEncrypted(ctx context.Context, bucketName string) (bool, error)
}

// Client wraps the S3 client for log archive bucket checks.
type Client struct {
	s3 *s3.Client
}

var _ API = (*Client)(nil)

// NewClient creates a log archive client for the given region.
func NewClient(ctx context.Context, region, profile string) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{s3: s3.NewFromConfig(cfg)}, nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// BucketEncrypted checks whether the bucket has default encryption.
func (c *Client) BucketEncrypted(ctx context.Context, bucketName string) (bool, error) {
	out, err := c.s3.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isEncryptionNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check encryption on %s: %w", bucketName, err)
	}
	return out.ServerSideEncryptionConfiguration != nil &&
		len(out.ServerSideEncryptionConfiguration.Rules) > 0, nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if code == "NotFound" || code == "NoSuchBucket" {
			return true
		}
	}

	// HeadBucket returns a bare 404 with no XML body, which surfaces as a
	// response error rather than a coded API error.
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}

	return false
}

// isEncryptionNotFound checks for the missing-encryption-config error.
func isEncryptionNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ServerSideEncryptionConfigurationNotFoundError"
	}
	return false
}
