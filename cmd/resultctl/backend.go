package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/results/archive"
	"github.com/hupe1980/results/archive/dynamo"
	"github.com/hupe1980/results/blobstore"
	minioblob "github.com/hupe1980/results/blobstore/minio"
	s3blob "github.com/hupe1980/results/blobstore/s3"
	"github.com/hupe1980/results/internal/cache"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openArchive builds the archive described by the archive.* configuration.
func (a *app) openArchive(ctx context.Context) (*archive.Archive, error) {
	store, namespace, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	if n := a.v.GetInt64(cfgKeyCacheBytes); n > 0 {
		store = blobstore.NewCachingStore(store, cache.NewShardedLRU(n, a.rc))
	}

	c, err := a.compression("")
	if err != nil {
		return nil, err
	}

	opts := []archive.Option{
		archive.WithCompression(c),
		archive.WithController(a.rc),
		archive.WithLogger(a.logger),
		archive.WithPrefix(a.v.GetString(cfgKeyPrefix)),
	}

	if table := a.v.GetString(cfgKeyDynamoDBTable); table != "" {
		cfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, archive.WithIndex(dynamo.NewIndex(dynamodb.NewFromConfig(cfg), table, namespace)))
	}

	return archive.New(store, opts...), nil
}

// openStore returns the configured blob store and a namespace naming it.
func (a *app) openStore(ctx context.Context) (blobstore.Store, string, error) {
	backend := a.v.GetString(cfgKeyBackend)
	bucket := a.v.GetString(cfgKeyBucket)
	endpoint := a.v.GetString(cfgKeyEndpoint)

	switch backend {
	case "memory":
		return blobstore.NewMemoryStore(), "memory", nil
	case "local":
		dir := a.v.GetString(cfgKeyDir)
		if dir == "" {
			return nil, "", usageErr("archive.dir is required for the local backend")
		}
		return blobstore.NewLocalStore(dir), "file://" + dir, nil
	case "s3":
		if bucket == "" {
			return nil, "", usageErr("archive.bucket is required for the s3 backend")
		}
		cfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, "", err
		}
		client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
		})
		return s3blob.NewStore(client, bucket, ""), "s3://" + bucket, nil
	case "minio":
		if bucket == "" || endpoint == "" {
			return nil, "", usageErr("archive.bucket and archive.endpoint are required for the minio backend")
		}
		host, secure := splitEndpoint(endpoint)
		client, err := minio.New(host, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: secure,
			Region: a.v.GetString(cfgKeyRegion),
		})
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, bucket, ""), "minio://" + host + "/" + bucket, nil
	default:
		return nil, "", usageErr("unknown archive backend %q", backend)
	}
}

func (a *app) awsConfig(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := a.v.GetString(cfgKeyRegion); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// splitEndpoint strips an http(s) scheme and reports whether TLS is used.
func splitEndpoint(endpoint string) (string, bool) {
	if host, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return host, false
	}
	return strings.TrimPrefix(endpoint, "https://"), true
}
