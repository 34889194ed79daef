package objectstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the connection settings for an S3-compatible store.
type Config struct {
	// Endpoint is the host[:port] of the store, without a scheme.
	Endpoint string
	// Region sent with signed requests. Empty lets the endpoint decide.
	Region string
	// Authenticated selects signed requests with credentials resolved
	// from the environment, shared credential files, or instance
	// metadata. Unauthenticated requests are sent anonymously.
	Authenticated bool
	// Insecure disables TLS.
	Insecure bool
}

// Client is a Store backed by an S3-compatible object store.
type Client struct {
	mc *minio.Client
}

var _ Store = (*Client)(nil)

// NewClient connects a Store to the endpoint described by cfg.
func NewClient(cfg Config) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	var creds *credentials.Credentials
	if cfg.Authenticated {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{},
		})
	} else {
		creds = credentials.NewStaticV4("", "", "")
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store %q: %w", endpoint, err)
	}
	return &Client{mc: mc}, nil
}

func (c *Client) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for object := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, translate(object.Err)
		}
		out = append(out, ObjectInfo{
			Key:          object.Key,
			ETag:         object.ETag,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}
	return out, nil
}

func (c *Client) ListPrefixes(ctx context.Context, bucket, prefix string) ([]string, error) {
	var out []string
	// Non-recursive listings use "/" as the delimiter; common prefixes
	// arrive on the same channel as keys ending in "/".
	for object := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, translate(object.Err)
		}
		if strings.HasSuffix(object.Key, "/") && object.Key != prefix {
			out = append(out, object.Key)
		}
	}
	return out, nil
}

func (c *Client) Stat(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	info, err := c.mc.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, translate(err)
	}
	return ObjectInfo{
		Key:          key,
		ETag:         info.ETag,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

func (c *Client) Get(ctx context.Context, bucket, key string) (*Object, error) {
	obj, err := c.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	// GetObject is lazy; Stat forces the request so errors surface here.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, translate(err)
	}
	return &Object{
		Body: obj,
		Info: ObjectInfo{
			Key:          key,
			ETag:         info.ETag,
			Size:         info.Size,
			LastModified: info.LastModified,
		},
	}, nil
}

// translate maps minio error responses onto the store's error types.
func translate(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Message)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
		"CredentialsNotSupported", "AccountProblem":
		return &AccessError{Code: resp.Code, Cause: err}
	}
	switch resp.StatusCode {
	case 401, 403:
		return &AccessError{Code: resp.Code, Cause: err}
	case 404:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Message)
	}
	return err
}
