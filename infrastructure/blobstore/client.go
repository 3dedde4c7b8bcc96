// Package blobstore lê e grava exports brutos e tabelas normalizadas no armazenamento de objetos
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/pkg/log"
	"github.com/vfg2006/outlet-dashboard-api/pkg/tabular"
	"github.com/vfg2006/outlet-dashboard-api/pkg/utils"
)

//go:generate mockgen -destination=mocks/mock_object_store.go -package=mocks . ObjectStore

// ObjectStore é implementado por cada backend (fs, postgres, sqlite, redis).
// Get retorna domain.ErrNotFound quando o objeto não existe.
type ObjectStore interface {
	Exists(ctx context.Context, bucket, key string) (bool, error)
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 200 * time.Millisecond
)

type Config struct {
	Attempts  int
	BaseDelay time.Duration
}

// Client adiciona retentativas e o formato tabular sobre um ObjectStore
type Client struct {
	store     ObjectStore
	attempts  int
	baseDelay time.Duration
}

func NewClient(store ObjectStore, cfg Config) *Client {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	return &Client{
		store:     store,
		attempts:  cfg.Attempts,
		baseDelay: cfg.BaseDelay,
	}
}

// retryable: objeto ausente e contexto cancelado nunca são repetidos
func retryable(err error) bool {
	return !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) do(ctx context.Context, op, bucket, key string, fn func(ctx context.Context) error) error {
	attempt := 0
	err := utils.Retry(ctx, c.attempts, c.baseDelay, retryable, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && retryable(err) && attempt < c.attempts {
			log.ForContext(ctx).WithFields(log.Fields{
				"op":      op,
				"bucket":  bucket,
				"key":     key,
				"attempt": attempt,
			}).WithError(err).Warn("Falha transitória no armazenamento, tentando novamente")
		}
		return err
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, bucket, key)
	}

	return &domain.StorageError{Op: op, Bucket: bucket, Key: key, Err: err}
}

func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	var exists bool
	err := c.do(ctx, "exists", bucket, key, func(ctx context.Context) error {
		var err error
		exists, err = c.store.Exists(ctx, bucket, key)
		return err
	})
	return exists, err
}

// ReadObject retorna os bytes brutos do objeto
func (c *Client) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	var data []byte
	err := c.do(ctx, "get", bucket, key, func(ctx context.Context) error {
		var err error
		data, err = c.store.Get(ctx, bucket, key)
		return err
	})
	return data, err
}

// ReadTable lê e interpreta um objeto delimitado com cabeçalho
func (c *Client) ReadTable(ctx context.Context, bucket, key string) (*domain.Table, error) {
	data, err := c.ReadObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	table, err := tabular.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar %s/%s: %w", bucket, key, err)
	}
	return table, nil
}

// WriteTable grava a tabela como CSV com cabeçalho
func (c *Client) WriteTable(ctx context.Context, table *domain.Table, bucket, key string) error {
	data, err := tabular.Encode(table)
	if err != nil {
		return &domain.StorageError{Op: "encode", Bucket: bucket, Key: key, Err: err}
	}

	return c.WriteObject(ctx, bucket, key, data)
}

func (c *Client) WriteObject(ctx context.Context, bucket, key string, data []byte) error {
	return c.do(ctx, "put", bucket, key, func(ctx context.Context) error {
		return c.store.Put(ctx, bucket, key, data)
	})
}

// List retorna as chaves com o prefixo informado, em ordem lexicográfica
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	err := c.do(ctx, "list", bucket, prefix, func(ctx context.Context) error {
		var err error
		keys, err = c.store.List(ctx, bucket, prefix)
		return err
	})
	return keys, err
}
