// Package s3 provides a cache.Pool stored as objects in an S3-compatible bucket.
//
// Each key maps to one object named prefix + md5(key). The bucket is created
// on first use if it does not exist.
package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/mockrr/pkg/cache"
)

// fanout bounds concurrent requests in batch operations.
const fanout = 8

// Config holds connection settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// Prefix is prepended to every object name.
	Prefix string
	UseSSL bool
}

// Pool is a bucket-backed cache.Pool.
type Pool struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	initOnce sync.Once
	initErr  error
}

// New creates a pool. The bucket is not contacted until the first operation.
func New(cfg Config) (*Pool, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, &cache.ValidationError{Field: "s3.endpoint", Message: "is required"}
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, &cache.ValidationError{Field: "s3.accessKey", Message: "access key and secret key are required"}
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, &cache.ValidationError{Field: "s3.bucket", Message: "is required"}
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, &cache.StorageError{Op: "open", Err: err}
	}

	return &Pool{
		client: client,
		bucket: bucket,
		region: region,
		prefix: cfg.Prefix,
	}, nil
}

func (p *Pool) ensureBucket(ctx context.Context) error {
	p.initOnce.Do(func() {
		exists, err := p.client.BucketExists(ctx, p.bucket)
		if err != nil {
			p.initErr = err
			return
		}
		if exists {
			return
		}
		p.initErr = p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region})
	})
	if p.initErr != nil {
		return &cache.StorageError{Op: "ensure bucket", Err: p.initErr}
	}
	return nil
}

func (p *Pool) object(key string) string {
	return p.prefix + cache.HashKey(key)
}

func notFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

func (p *Pool) Has(ctx context.Context, key string) (bool, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return false, err
	}
	_, err := p.client.StatObject(ctx, p.bucket, p.object(key), minio.StatObjectOptions{})
	if err != nil {
		if notFound(err) {
			return false, nil
		}
		return false, &cache.StorageError{Op: "has", Key: key, Err: err}
	}
	return true, nil
}

func (p *Pool) Get(ctx context.Context, key string) (cache.Item, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return cache.Item{}, err
	}
	obj, err := p.client.GetObject(ctx, p.bucket, p.object(key), minio.GetObjectOptions{})
	if err != nil {
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: err}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if notFound(err) {
			return cache.Item{Key: key}, nil
		}
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: err}
	}
	return cache.Item{Key: key, Value: data, Hit: true}, nil
}

// GetMany fetches keys concurrently.
func (p *Pool) GetMany(ctx context.Context, keys ...string) ([]cache.Item, error) {
	items := make([]cache.Item, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanout)
	for i, key := range keys {
		g.Go(func() error {
			item, err := p.Get(gctx, key)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *Pool) Save(ctx context.Context, item cache.Item) error {
	if err := cache.ValidateKey(item.Key); err != nil {
		return err
	}
	if err := p.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := p.client.PutObject(ctx, p.bucket, p.object(item.Key), bytes.NewReader(item.Value), int64(len(item.Value)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return &cache.StorageError{Op: "save", Key: item.Key, Err: err}
	}
	return nil
}

func (p *Pool) Delete(ctx context.Context, key string) error {
	if err := p.ensureBucket(ctx); err != nil {
		return err
	}
	return p.remove(ctx, p.object(key), key)
}

func (p *Pool) remove(ctx context.Context, name, key string) error {
	err := p.client.RemoveObject(ctx, p.bucket, name, minio.RemoveObjectOptions{})
	if err != nil && !notFound(err) {
		return &cache.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// DeleteMany removes keys concurrently.
func (p *Pool) DeleteMany(ctx context.Context, keys ...string) error {
	if err := p.ensureBucket(ctx); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanout)
	for _, key := range keys {
		g.Go(func() error {
			return p.remove(gctx, p.object(key), key)
		})
	}
	return g.Wait()
}

// Clear removes every object below the prefix.
func (p *Pool) Clear(ctx context.Context) error {
	if err := p.ensureBucket(ctx); err != nil {
		return err
	}
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanout)
	for obj := range p.client.ListObjects(listCtx, p.bucket, minio.ListObjectsOptions{
		Prefix:    p.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			_ = g.Wait()
			return &cache.StorageError{Op: "clear", Err: obj.Err}
		}
		name := obj.Key
		g.Go(func() error {
			return p.remove(gctx, name, "")
		})
	}
	return g.Wait()
}

func (p *Pool) SaveDeferred(ctx context.Context, item cache.Item) error {
	return &cache.UnsupportedError{Op: "save deferred"}
}

func (p *Pool) Commit(ctx context.Context) error {
	return &cache.UnsupportedError{Op: "commit"}
}

func (p *Pool) Close() error {
	return nil
}

var _ cache.Pool = (*Pool)(nil)
