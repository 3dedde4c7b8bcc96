// Package ingesting lê os exports brutos, normaliza via cache e publica um snapshot imutável
package ingesting

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/caching"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/outlet-dashboard-api/pkg/log"
	"github.com/vfg2006/outlet-dashboard-api/pkg/tabular"
)

// ObjectReader é o subconjunto do cliente de armazenamento usado para ler exports brutos
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// Sources descreve onde estão os exports; chaves terminadas em "/" são prefixos
type Sources struct {
	Bucket       string
	SalesKeys    []string
	ServiceKeys  []string
	CategoryKeys []string
	KnownOutlets []string
}

// Caches agrupa um TableCache por tipo de tabela
type Caches struct {
	Sales      *caching.TableCache[domain.SalesTable]
	Services   *caching.TableCache[domain.ServiceTable]
	Categories *caching.TableCache[domain.CategoryTable]
}

// NewCaches cria os caches por tipo sobre o mesmo armazenamento
func NewCaches(store caching.TableStore, options caching.Options) Caches {
	return Caches{
		Sales:      caching.NewTableCache[domain.SalesTable](store, normalizing.SalesCodec{}, options),
		Services:   caching.NewTableCache[domain.ServiceTable](store, normalizing.ServiceCodec{}, options),
		Categories: caching.NewTableCache[domain.CategoryTable](store, normalizing.CategoryCodec{}, options),
	}
}

// Dataset resume a disponibilidade de um tipo de tabela no snapshot
type Dataset = domain.DatasetStatus

// Snapshot é o conjunto de tabelas canônicas servido às consultas; nunca é alterado após publicado
type Snapshot struct {
	Sales      domain.SalesTable
	Services   domain.ServiceTable
	Categories domain.CategoryTable

	SalesInfo      Dataset
	ServicesInfo   Dataset
	CategoriesInfo Dataset

	Signature string
	LoadedAt  time.Time
}

type Loader struct {
	objects ObjectReader
	caches  Caches
	sources Sources
	opts    normalizing.Options

	current atomic.Pointer[Snapshot]
	mu      sync.Mutex

	// memoized guarda a chave em cache vigente de cada export; protegido por mu
	memoized map[string]memoEntry
}

type memoEntry struct {
	key    caching.Key
	forget func()
}

func NewLoader(objects ObjectReader, caches Caches, sources Sources) *Loader {
	return &Loader{
		objects: objects,
		caches:  caches,
		sources: sources,
		opts:    normalizing.Options{KnownOutlets: sources.KnownOutlets},

		memoized: make(map[string]memoEntry),
	}
}

// Snapshot retorna o snapshot atual, carregando-o na primeira chamada
func (l *Loader) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snapshot := l.current.Load(); snapshot != nil {
		return snapshot, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if snapshot := l.current.Load(); snapshot != nil {
		return snapshot, nil
	}

	snapshot, transient, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if !transient {
		l.current.Store(snapshot)
	}
	return snapshot, nil
}

// Refresh relê os exports e publica um novo snapshot; arquivos inalterados vêm do cache.
// Com falha de armazenamento o snapshot anterior é mantido; sem snapshot anterior,
// o resultado parcial é devolvido sem publicar e a próxima chamada tenta de novo.
func (l *Loader) Refresh(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot, transient, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	if transient {
		if l.current.Load() != nil {
			return nil, fmt.Errorf("%w: atualização incompleta, snapshot anterior mantido", domain.ErrStorage)
		}
		return snapshot, nil
	}

	l.current.Store(snapshot)
	return snapshot, nil
}

// load monta um snapshot sem publicá-lo; transient indica que algum export
// falhou por erro de armazenamento e deve ser lido novamente
func (l *Loader) load(ctx context.Context) (*Snapshot, bool, error) {
	start := time.Now()
	logger := log.ForContext(ctx)

	snapshot := &Snapshot{LoadedAt: start}
	signatures := make([]string, 0)

	seen := make(map[string]struct{})
	salesParts, salesInfo, salesSigs, salesTransient := loadKind(ctx, l, normalizing.KindSales, l.sources.SalesKeys, l.caches.Sales, normalizing.NormalizeSales, seen)
	servicesParts, servicesInfo, servicesSigs, servicesTransient := loadKind(ctx, l, normalizing.KindServices, l.sources.ServiceKeys, l.caches.Services, normalizing.NormalizeServices, seen)
	categoriesParts, categoriesInfo, categoriesSigs, categoriesTransient := loadKind(ctx, l, normalizing.KindCategories, l.sources.CategoryKeys, l.caches.Categories, normalizing.NormalizeCategories, seen)

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	transient := salesTransient || servicesTransient || categoriesTransient

	// Exports que sumiram da listagem liberam a tabela memorizada
	if !transient {
		for id, entry := range l.memoized {
			if _, ok := seen[id]; !ok {
				entry.forget()
				delete(l.memoized, id)
			}
		}
	}

	snapshot.Sales = normalizing.MergeSales(flatten(salesParts))
	snapshot.Services = normalizing.MergeServices(flatten(servicesParts))
	snapshot.Categories = normalizing.MergeCategories(flatten(categoriesParts))

	salesInfo.Rows = len(snapshot.Sales)
	servicesInfo.Rows = len(snapshot.Services)
	categoriesInfo.Rows = len(snapshot.Categories)
	snapshot.SalesInfo = salesInfo
	snapshot.ServicesInfo = servicesInfo
	snapshot.CategoriesInfo = categoriesInfo

	signatures = append(signatures, salesSigs...)
	signatures = append(signatures, servicesSigs...)
	signatures = append(signatures, categoriesSigs...)
	snapshot.Signature = strconv.FormatUint(
		xxhash.Sum64String(strings.Join(signatures, "|")+"|v"+strconv.Itoa(normalizing.Version)+"|"+l.opts.Signature()), 16)

	logger.WithFields(log.Fields{
		"signature":          snapshot.Signature,
		"sales_rows":         salesInfo.Rows,
		"service_rows":       servicesInfo.Rows,
		"category_rows":      categoriesInfo.Rows,
		"services_available": servicesInfo.Available,
		"transient_failure":  transient,
		"duration_ms":        time.Since(start).Milliseconds(),
	}).Info("Snapshot de relatórios carregado")

	return snapshot, transient, nil
}

// loadKind normaliza cada arquivo de um tipo; falhas de um arquivo descartam apenas a contribuição dele
func loadKind[T any](
	ctx context.Context,
	l *Loader,
	kind string,
	keys []string,
	cache *caching.TableCache[T],
	normalize func(*domain.Table, normalizing.Options) (T, *normalizing.Report, error),
	seen map[string]struct{},
) ([]T, Dataset, []string, bool) {
	logger := log.ForContext(ctx).WithField("kind", kind)
	info := Dataset{Files: make([]string, 0)}
	parts := make([]T, 0)
	signatures := make([]string, 0)

	transient := false

	files, err := l.expand(ctx, keys)
	if err != nil {
		logger.WithError(err).Warn("Erro ao listar exports")
		transient = errors.Is(err, domain.ErrStorage)
	}

	for _, file := range files {
		seen[kind+":"+file] = struct{}{}

		value, signature, err := loadFile(ctx, l, kind, file, cache, normalize)
		if err != nil {
			logger.WithField("source", file).WithError(err).Warn("Export descartado")
			info.Failed = append(info.Failed, file)
			if errors.Is(err, domain.ErrStorage) {
				transient = true
			}
			continue
		}

		parts = append(parts, value)
		signatures = append(signatures, kind+":"+file+":"+signature)
		info.Files = append(info.Files, file)
	}

	info.Available = len(parts) > 0
	return parts, info, signatures, transient
}

func loadFile[T any](
	ctx context.Context,
	l *Loader,
	kind, file string,
	cache *caching.TableCache[T],
	normalize func(*domain.Table, normalizing.Options) (T, *normalizing.Report, error),
) (T, string, error) {
	var zero T

	raw, err := l.objects.ReadObject(ctx, l.sources.Bucket, file)
	if err != nil {
		return zero, "", err
	}

	signature := strconv.FormatUint(xxhash.Sum64(raw), 16)
	key := caching.Key{
		Kind:      kind,
		Source:    file,
		Signature: signature,
		Version:   normalizing.Version,
		Params:    l.opts.Signature(),
	}

	opts := l.opts
	opts.Source = file

	value, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) (T, error) {
		table, err := tabular.Parse(raw)
		if err != nil {
			return zero, errors.Wrapf(err, "erro ao interpretar %s", file)
		}

		value, report, err := normalize(table, opts)
		if err != nil {
			return zero, err
		}

		report.Log()
		return value, nil
	})
	if err != nil {
		return zero, "", err
	}

	// Uma nova assinatura substitui a tabela memorizada da versão anterior do export
	id := kind + ":" + file
	if previous, ok := l.memoized[id]; ok && previous.key != key {
		previous.forget()
	}
	l.memoized[id] = memoEntry{key: key, forget: func() { cache.Forget(key) }}

	return value, signature, nil
}

// expand resolve prefixos em chaves concretas, sem duplicatas e em ordem estável
func (l *Loader) expand(ctx context.Context, keys []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0, len(keys))
	var firstErr error

	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		files = append(files, key)
	}

	for _, key := range keys {
		if !strings.HasSuffix(key, "/") {
			add(key)
			continue
		}

		listed, err := l.objects.List(ctx, l.sources.Bucket, key)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		sort.Strings(listed)
		for _, item := range listed {
			if isExportFile(item) {
				add(item)
			}
		}
	}

	return files, firstErr
}

func isExportFile(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".csv", ".tsv", ".txt":
		return true
	default:
		return false
	}
}

func flatten[T any, S ~[]T](parts []S) []T {
	total := 0
	for _, part := range parts {
		total += len(part)
	}

	result := make([]T, 0, total)
	for _, part := range parts {
		result = append(result, part...)
	}
	return result
}
