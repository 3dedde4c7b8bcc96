package ingesting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/outlet-dashboard-api/infrastructure/blobstore"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/caching"
)

const (
	salesExport2023 = "SALON NAMES,Brand,Year,Month,MTD Sales,MTD Bills\n" +
		"T NAGAR,Naturals,2023,Jan,\"1,00,000\",500\n" +
		"ADYAR,Naturals,2023,Feb,200,2\n"
	salesExport2025 = "Outlet;Brand;Year;Month;MTD Sales;MTD Bills\n" +
		"t nagar;Naturals;2025;January;150000;600\n"
	serviceExport = "Center Name,Service Type,Category,Year,Total Sales,Transactions\n" +
		"T NAGAR,Hair Cut,Service,2024,5000,50\n"
)

func newTestLoader(t *testing.T, fs afero.Fs, sources Sources) (*Loader, *blobstore.Client) {
	t.Helper()

	client := blobstore.NewClient(blobstore.NewFSStore(fs), blobstore.Config{Attempts: 1, BaseDelay: time.Millisecond})
	caches := NewCaches(client, caching.Options{Bucket: "reports", Prefix: "normalized"})
	return NewLoader(client, caches, sources), client
}

func writeExport(t *testing.T, client *blobstore.Client, key, content string) {
	t.Helper()
	require.NoError(t, client.WriteObject(context.Background(), "reports", key, []byte(content)))
}

func TestLoader_Snapshot(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	loader, client := newTestLoader(t, fs, Sources{
		Bucket:       "reports",
		SalesKeys:    []string{"exports/sales/"},
		ServiceKeys:  []string{"exports/services.csv"},
		CategoryKeys: []string{"exports/categories.csv"},
	})

	writeExport(t, client, "exports/sales/2023.csv", salesExport2023)
	writeExport(t, client, "exports/sales/2025.csv", salesExport2025)
	writeExport(t, client, "exports/sales/broken.csv", "Outlet,Year\nADYAR,2023\n")
	writeExport(t, client, "exports/sales/readme.md", "ignorado")
	writeExport(t, client, "exports/services.csv", serviceExport)

	snapshot, err := loader.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, snapshot.Sales, 3)
	assert.True(t, snapshot.SalesInfo.Available)
	assert.Equal(t, []string{"exports/sales/2023.csv", "exports/sales/2025.csv"}, snapshot.SalesInfo.Files)
	assert.Equal(t, []string{"exports/sales/broken.csv"}, snapshot.SalesInfo.Failed)

	assert.True(t, snapshot.ServicesInfo.Available)
	assert.Len(t, snapshot.Services, 1)

	assert.False(t, snapshot.CategoriesInfo.Available)
	assert.Empty(t, snapshot.Categories)

	persisted, err := client.List(ctx, "reports", "normalized/sales/")
	require.NoError(t, err)
	assert.Len(t, persisted, 2)

	again, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, snapshot, again)
}

func TestLoader_RefreshPicksUpChangedExport(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	loader, client := newTestLoader(t, fs, Sources{Bucket: "reports", SalesKeys: []string{"exports/sales.csv"}})
	writeExport(t, client, "exports/sales.csv", salesExport2023)

	first, err := loader.Snapshot(ctx)
	require.NoError(t, err)

	refreshed, err := loader.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Signature, refreshed.Signature)
	assert.Equal(t, first.Sales, refreshed.Sales)

	writeExport(t, client, "exports/sales.csv", salesExport2025)

	changed, err := loader.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Signature, changed.Signature)
	require.Len(t, changed.Sales, 1)
	assert.Equal(t, 2025, changed.Sales[0].Year)

	persisted, err := client.List(ctx, "reports", "normalized/sales/")
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestLoader_KnownOutlets(t *testing.T) {
	ctx := context.Background()

	loader, client := newTestLoader(t, afero.NewMemMapFs(), Sources{
		Bucket:       "reports",
		SalesKeys:    []string{"exports/sales.csv"},
		KnownOutlets: []string{"t nagar"},
	})
	writeExport(t, client, "exports/sales.csv", salesExport2023)

	snapshot, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Sales, 1)
	assert.Equal(t, "T NAGAR", snapshot.Sales[0].OutletName)
	assert.Equal(t, domain.Amount(100000), snapshot.Sales[0].MTDSales)
}

// unstableReader simula o armazenamento indisponível enquanto down estiver ligado
type unstableReader struct {
	ObjectReader
	down atomic.Bool
}

func (r *unstableReader) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if r.down.Load() {
		return nil, &domain.StorageError{Op: "get", Bucket: bucket, Key: key, Err: errors.New("connection refused")}
	}
	return r.ObjectReader.ReadObject(ctx, bucket, key)
}

func TestLoader_StorageOutageIsRetried(t *testing.T) {
	ctx := context.Background()
	sources := Sources{Bucket: "reports", SalesKeys: []string{"exports/sales.csv"}}

	client := blobstore.NewClient(blobstore.NewFSStore(afero.NewMemMapFs()), blobstore.Config{Attempts: 1, BaseDelay: time.Millisecond})
	writeExport(t, client, "exports/sales.csv", salesExport2023)

	reader := &unstableReader{ObjectReader: client}
	reader.down.Store(true)
	loader := NewLoader(reader, NewCaches(client, caching.Options{Bucket: "reports", Prefix: "normalized"}), sources)

	during, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, during.SalesInfo.Available)
	assert.Equal(t, []string{"exports/sales.csv"}, during.SalesInfo.Failed)

	reader.down.Store(false)

	recovered, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, recovered.SalesInfo.Available)
	assert.Len(t, recovered.Sales, 2)

	// Com um snapshot publicado, uma nova falha mantém os dados anteriores
	reader.down.Store(true)
	_, err = loader.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)

	current, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, recovered, current)
}

func TestLoader_MissingFieldIsNotRetried(t *testing.T) {
	ctx := context.Background()

	loader, client := newTestLoader(t, afero.NewMemMapFs(), Sources{Bucket: "reports", SalesKeys: []string{"exports/sales.csv"}})
	writeExport(t, client, "exports/sales.csv", "Outlet,Year\nADYAR,2023\n")

	first, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, first.SalesInfo.Available)

	again, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestLoader_RefreshReleasesReplacedTables(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	loader, client := newTestLoader(t, fs, Sources{Bucket: "reports", SalesKeys: []string{"exports/sales/"}})
	writeExport(t, client, "exports/sales/current.csv", salesExport2023)
	writeExport(t, client, "exports/sales/old.csv", salesExport2025)

	_, err := loader.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.caches.Sales.Len())

	for i := 1; i <= 5; i++ {
		content := salesExport2023 + fmt.Sprintf("VELACHERY,Naturals,2023,Mar,%d,1\n", i*100)
		writeExport(t, client, "exports/sales/current.csv", content)

		_, err := loader.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, loader.caches.Sales.Len())
	}

	// Um export removido do bucket também libera a tabela memorizada
	require.NoError(t, fs.Remove("/reports/exports/sales/old.csv"))

	snapshot, err := loader.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/sales/current.csv"}, snapshot.SalesInfo.Files)
	assert.Equal(t, 1, loader.caches.Sales.Len())
}
