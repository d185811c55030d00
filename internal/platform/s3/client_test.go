package s3

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "eu-central-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient:   &http.Client{Transport: &http.Transport{}},
	})

	return &Client{s3: client, region: "eu-central-1"}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), "eu-west-1",
		WithEndpoint("http://localhost:9000"),
		WithStaticCredentials("key", "secret"))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", client.Region())
}

func TestBucketRegion(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/metrics" {
			w.Header().Set("x-amz-bucket-region", "eu-west-1")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	region, err := client.BucketRegion(context.Background(), "metrics")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", region)

	exists, err := client.BucketExists(context.Background(), "metrics")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBucketExists_False(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusNotFound, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>NotFound</Code>
  <Message>Not Found</Message>
</Error>`)
	}))

	exists, err := client.BucketExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBucketExists_OtherError(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	}))

	_, err := client.BucketExists(context.Background(), "logs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket logs")
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()
	assert.False(t, isNotFoundError(nil))
	assert.False(t, isNotFoundError(context.Canceled))
}
