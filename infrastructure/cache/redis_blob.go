// Package cache implementa o armazenamento de objetos sobre Redis
package cache

import (
	"context"
	"sort"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

// RedisBlobStore guarda cada objeto em uma chave "blob:<bucket>:<key>" e
// mantém um índice ordenado por bucket para listagem
type RedisBlobStore struct {
	client redis.Cmdable
	closer func() error
}

func NewRedisBlobStore(addr string, password string, db int) *RedisBlobStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisBlobStore{client: client, closer: client.Close}
}

// NewRedisBlobStoreWithClient usa um cliente já configurado (cluster, sentinel ou testes)
func NewRedisBlobStoreWithClient(client redis.Cmdable) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

func objectKey(bucket, key string) string {
	return "blob:" + bucket + ":" + key
}

func indexKey(bucket string) string {
	return "blob-index:" + bucket
}

func (s *RedisBlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisBlobStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *RedisBlobStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	n, err := s.client.Exists(ctx, objectKey(bucket, key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisBlobStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, objectKey(bucket, key)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put grava o objeto e o índice na mesma transação MULTI/EXEC
func (s *RedisBlobStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, objectKey(bucket, key), data, 0)
		pipe.ZAdd(ctx, indexKey(bucket), redis.Z{Score: 0, Member: key})
		return nil
	})
	return err
}

func (s *RedisBlobStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	members, err := s.client.ZRange(ctx, indexKey(bucket), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(members))
	for _, member := range members {
		if strings.HasPrefix(member, prefix) {
			keys = append(keys, member)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
