// Package caching memoriza tabelas normalizadas em memória e no armazenamento de objetos
package caching

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -destination=mocks/mock_table_store.go -package=mocks . TableStore

// TableStore é o subconjunto do cliente de armazenamento usado pelo cache
type TableStore interface {
	Exists(ctx context.Context, bucket, key string) (bool, error)
	ReadTable(ctx context.Context, bucket, key string) (*domain.Table, error)
	WriteTable(ctx context.Context, table *domain.Table, bucket, key string) error
}

// Codec converte o valor em cache de/para a forma tabular persistida
type Codec[T any] interface {
	Encode(value T) (*domain.Table, error)
	Decode(table *domain.Table) (T, error)
}

// Key identifica uma tabela derivada. Qualquer mudança na origem, nos parâmetros
// ou na versão da normalização gera uma chave nova.
type Key struct {
	Kind      string // sales, services, categories
	Source    string // chave do export bruto
	Signature string // hash do conteúdo bruto
	Version   int    // versão da lógica de normalização
	Params    string // hash dos parâmetros de normalização
}

// ObjectKey monta o caminho do objeto persistido
func (k Key) ObjectKey(prefix string) string {
	name := fmt.Sprintf("%s-v%s-%s-%s.csv", path.Base(k.Source), strconv.Itoa(k.Version), k.Signature, k.Params)
	return path.Join(prefix, k.Kind, name)
}

type Options struct {
	Bucket string
	Prefix string
}

// TableCache implementa memo em processo → blob store → cálculo.
// Leituras de valores memorizados nunca bloqueiam; no máximo um cálculo por chave fica em andamento.
type TableCache[T any] struct {
	store   TableStore
	codec   Codec[T]
	options Options
	memo    sync.Map
	group   singleflight.Group
}

func NewTableCache[T any](store TableStore, codec Codec[T], options Options) *TableCache[T] {
	return &TableCache[T]{
		store:   store,
		codec:   codec,
		options: options,
	}
}

// GetOrCompute retorna o valor em cache ou calcula, persiste e memoriza.
// Uma falha ao persistir não é fatal: o valor é retornado mas não memorizado.
func (c *TableCache[T]) GetOrCompute(ctx context.Context, key Key, compute func(ctx context.Context) (T, error)) (T, error) {
	objectKey := key.ObjectKey(c.options.Prefix)

	if value, ok := c.memo.Load(objectKey); ok {
		return value.(T), nil
	}

	result, err, _ := c.group.Do(objectKey, func() (interface{}, error) {
		if value, ok := c.memo.Load(objectKey); ok {
			return value, nil
		}

		logger := logrus.WithFields(logrus.Fields{
			"kind":   key.Kind,
			"bucket": c.options.Bucket,
			"key":    objectKey,
		})

		if value, ok := c.readPersisted(ctx, objectKey, logger); ok {
			c.memo.Store(objectKey, value)
			logger.Debug("Tabela carregada do armazenamento")
			return value, nil
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.persist(ctx, value, objectKey); err != nil {
			logger.WithError(err).Warn("Erro ao persistir tabela em cache, valor não será memorizado")
			return value, nil
		}

		c.memo.Store(objectKey, value)
		logger.Info("Tabela normalizada persistida em cache")
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

func (c *TableCache[T]) readPersisted(ctx context.Context, objectKey string, logger *logrus.Entry) (T, bool) {
	var zero T

	exists, err := c.store.Exists(ctx, c.options.Bucket, objectKey)
	if err != nil {
		logger.WithError(err).Warn("Erro ao verificar tabela em cache, recalculando")
		return zero, false
	}
	if !exists {
		return zero, false
	}

	table, err := c.store.ReadTable(ctx, c.options.Bucket, objectKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.WithError(err).Warn("Erro ao ler tabela em cache, recalculando")
		}
		return zero, false
	}

	value, err := c.codec.Decode(table)
	if err != nil {
		logger.WithError(err).Warn("Tabela em cache inválida, recalculando")
		return zero, false
	}

	return value, true
}

func (c *TableCache[T]) persist(ctx context.Context, value T, objectKey string) error {
	table, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	return c.store.WriteTable(ctx, table, c.options.Bucket, objectKey)
}

// Forget descarta a entrada memorizada (o objeto persistido permanece)
func (c *TableCache[T]) Forget(key Key) {
	c.memo.Delete(key.ObjectKey(c.options.Prefix))
}

// Len retorna a quantidade de tabelas memorizadas em processo
func (c *TableCache[T]) Len() int {
	n := 0
	c.memo.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
