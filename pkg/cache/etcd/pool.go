// Package etcd provides a cache.Pool stored in etcd.
//
// Keys are stored below a prefix. CompareAndSwap runs as a single etcd
// transaction, so processes sharing a cluster never lose updates.
package etcd

import (
	"context"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/getmockd/mockrr/pkg/cache"
)

// DefaultPrefix is used when none is given.
const DefaultPrefix = "/mockrr/"

// Config holds connection settings.
type Config struct {
	Endpoints   []string
	Username    string
	Password    string
	Prefix      string
	DialTimeout time.Duration
}

// Pool is an etcd-backed cache.Pool.
type Pool struct {
	client     *clientv3.Client
	prefix     string
	ownsClient bool
}

// Open connects to the cluster described by cfg.
func Open(cfg Config) (*Pool, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, &cache.ValidationError{Field: "etcd.endpoints", Message: "at least one endpoint is required"}
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, &cache.StorageError{Op: "open", Err: err}
	}
	p := New(client, cfg.Prefix)
	p.ownsClient = true
	return p, nil
}

// New wraps an existing client. Close leaves the client open.
func New(client *clientv3.Client, prefix string) *Pool {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Pool{client: client, prefix: prefix}
}

func (p *Pool) name(key string) string {
	return p.prefix + key
}

func (p *Pool) Has(ctx context.Context, key string) (bool, error) {
	resp, err := p.client.Get(ctx, p.name(key), clientv3.WithCountOnly())
	if err != nil {
		return false, &cache.StorageError{Op: "has", Key: key, Err: err}
	}
	return resp.Count > 0, nil
}

func (p *Pool) Get(ctx context.Context, key string) (cache.Item, error) {
	resp, err := p.client.Get(ctx, p.name(key))
	if err != nil {
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: err}
	}
	if len(resp.Kvs) == 0 {
		return cache.Item{Key: key}, nil
	}
	value := resp.Kvs[0].Value
	if value == nil {
		value = []byte{}
	}
	return cache.Item{Key: key, Value: value, Hit: true}, nil
}

// GetMany reads all keys in one transaction.
func (p *Pool) GetMany(ctx context.Context, keys ...string) ([]cache.Item, error) {
	if len(keys) == 0 {
		return []cache.Item{}, nil
	}
	ops := make([]clientv3.Op, len(keys))
	for i, key := range keys {
		ops[i] = clientv3.OpGet(p.name(key))
	}
	resp, err := p.client.Txn(ctx).Then(ops...).Commit()
	if err != nil {
		return nil, &cache.StorageError{Op: "get many", Err: err}
	}
	items := make([]cache.Item, len(keys))
	for i, key := range keys {
		items[i] = cache.Item{Key: key}
		kvs := resp.Responses[i].GetResponseRange().GetKvs()
		if len(kvs) > 0 {
			items[i].Value = kvs[0].Value
			items[i].Hit = true
			if items[i].Value == nil {
				items[i].Value = []byte{}
			}
		}
	}
	return items, nil
}

func (p *Pool) Save(ctx context.Context, item cache.Item) error {
	if err := cache.ValidateKey(item.Key); err != nil {
		return err
	}
	if _, err := p.client.Put(ctx, p.name(item.Key), string(item.Value)); err != nil {
		return &cache.StorageError{Op: "save", Key: item.Key, Err: err}
	}
	return nil
}

func (p *Pool) Delete(ctx context.Context, key string) error {
	if _, err := p.client.Delete(ctx, p.name(key)); err != nil {
		return &cache.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// DeleteMany removes all keys in one transaction.
func (p *Pool) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ops := make([]clientv3.Op, len(keys))
	for i, key := range keys {
		ops[i] = clientv3.OpDelete(p.name(key))
	}
	if _, err := p.client.Txn(ctx).Then(ops...).Commit(); err != nil {
		return &cache.StorageError{Op: "delete many", Err: err}
	}
	return nil
}

// Clear removes every key below the prefix.
func (p *Pool) Clear(ctx context.Context) error {
	if _, err := p.client.Delete(ctx, p.prefix, clientv3.WithPrefix()); err != nil {
		return &cache.StorageError{Op: "clear", Err: err}
	}
	return nil
}

func (p *Pool) SaveDeferred(ctx context.Context, item cache.Item) error {
	return &cache.UnsupportedError{Op: "save deferred"}
}

func (p *Pool) Commit(ctx context.Context) error {
	return &cache.UnsupportedError{Op: "commit"}
}

// Close closes the client if the pool opened it.
func (p *Pool) Close() error {
	if !p.ownsClient {
		return nil
	}
	return p.client.Close()
}

// CompareAndSwap implements cache.Swapper with a transaction comparing the
// current value, or the absence of the key when existed is false.
func (p *Pool) CompareAndSwap(ctx context.Context, key string, old, next []byte, existed bool) (bool, error) {
	if err := cache.ValidateKey(key); err != nil {
		return false, err
	}
	name := p.name(key)
	var cmp clientv3.Cmp
	if existed {
		cmp = clientv3.Compare(clientv3.Value(name), "=", string(old))
	} else {
		cmp = clientv3.Compare(clientv3.CreateRevision(name), "=", 0)
	}
	resp, err := p.client.Txn(ctx).If(cmp).Then(clientv3.OpPut(name, string(next))).Commit()
	if err != nil {
		return false, &cache.StorageError{Op: "compare and swap", Key: key, Err: err}
	}
	return resp.Succeeded, nil
}

var (
	_ cache.Pool    = (*Pool)(nil)
	_ cache.Swapper = (*Pool)(nil)
)
