package caching

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/caching/mocks"
	"go.uber.org/mock/gomock"
)

// namesCodec persiste uma lista de nomes como tabela de uma coluna
type namesCodec struct{}

func (namesCodec) Encode(names []string) (*domain.Table, error) {
	table := &domain.Table{Columns: []string{"name"}}
	for _, name := range names {
		table.Rows = append(table.Rows, []string{name})
	}
	return table, nil
}

func (namesCodec) Decode(table *domain.Table) ([]string, error) {
	names := make([]string, 0, table.Len())
	for _, row := range table.Rows {
		names = append(names, row[0])
	}
	return names, nil
}

var testKey = Key{Kind: "sales", Source: "exports/sales.csv", Signature: "abc123", Version: 3, Params: "0"}

func TestKey_ObjectKey(t *testing.T) {
	assert.Equal(t, "normalized/sales/sales.csv-v3-abc123-0.csv", testKey.ObjectKey("normalized"))

	changed := testKey
	changed.Version = 4
	assert.NotEqual(t, testKey.ObjectKey("normalized"), changed.ObjectKey("normalized"))
}

func TestTableCache_GetOrCompute(t *testing.T) {
	ctx := context.Background()
	objectKey := testKey.ObjectKey("normalized")

	tests := []struct {
		name          string
		setup         func(store *mocks.MockTableStore)
		calls         int
		expectedCalls int32
		expected      []string
	}{
		{
			name: "Miss calcula uma vez e memoriza",
			setup: func(store *mocks.MockTableStore) {
				store.EXPECT().Exists(gomock.Any(), "bucket", objectKey).Return(false, nil).Times(1)
				store.EXPECT().WriteTable(gomock.Any(), gomock.Any(), "bucket", objectKey).Return(nil).Times(1)
			},
			calls:         2,
			expectedCalls: 1,
			expected:      []string{"computed"},
		},
		{
			name: "Hit no armazenamento não chama o cálculo",
			setup: func(store *mocks.MockTableStore) {
				store.EXPECT().Exists(gomock.Any(), "bucket", objectKey).Return(true, nil).Times(1)
				store.EXPECT().ReadTable(gomock.Any(), "bucket", objectKey).
					Return(&domain.Table{Columns: []string{"name"}, Rows: [][]string{{"persisted"}}}, nil).Times(1)
			},
			calls:         2,
			expectedCalls: 0,
			expected:      []string{"persisted"},
		},
		{
			name: "Falha ao persistir retorna o valor e recalcula na próxima chamada",
			setup: func(store *mocks.MockTableStore) {
				store.EXPECT().Exists(gomock.Any(), "bucket", objectKey).Return(false, nil).Times(2)
				store.EXPECT().WriteTable(gomock.Any(), gomock.Any(), "bucket", objectKey).
					Return(&domain.StorageError{Op: "write", Err: errors.New("disk full")}).Times(2)
			},
			calls:         2,
			expectedCalls: 2,
			expected:      []string{"computed"},
		},
		{
			name: "Erro de leitura recalcula",
			setup: func(store *mocks.MockTableStore) {
				store.EXPECT().Exists(gomock.Any(), "bucket", objectKey).Return(true, nil).Times(1)
				store.EXPECT().ReadTable(gomock.Any(), "bucket", objectKey).Return(nil, domain.ErrNotFound).Times(1)
				store.EXPECT().WriteTable(gomock.Any(), gomock.Any(), "bucket", objectKey).Return(nil).Times(1)
			},
			calls:         1,
			expectedCalls: 1,
			expected:      []string{"computed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockTableStore(ctrl)
			tt.setup(store)

			cache := NewTableCache[[]string](store, namesCodec{}, Options{Bucket: "bucket", Prefix: "normalized"})

			var computed int32
			compute := func(ctx context.Context) ([]string, error) {
				atomic.AddInt32(&computed, 1)
				return []string{"computed"}, nil
			}

			for i := 0; i < tt.calls; i++ {
				value, err := cache.GetOrCompute(ctx, testKey, compute)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, value)
			}

			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&computed))
		})
	}
}

func TestTableCache_ComputeErrorIsNotMemoized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTableStore(ctrl)
	store.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	store.EXPECT().WriteTable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	cache := NewTableCache[[]string](store, namesCodec{}, Options{Bucket: "bucket"})

	_, err := cache.GetOrCompute(context.Background(), testKey, func(ctx context.Context) ([]string, error) {
		return nil, domain.ErrMissingField
	})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	value, err := cache.GetOrCompute(context.Background(), testKey, func(ctx context.Context) ([]string, error) {
		return []string{"ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, value)
}

func TestTableCache_ConcurrentCallsComputeOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTableStore(ctrl)
	store.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(1)
	store.EXPECT().WriteTable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	cache := NewTableCache[[]string](store, namesCodec{}, Options{Bucket: "bucket"})

	var computed int32
	release := make(chan struct{})
	compute := func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&computed, 1)
		<-release
		return []string{"computed"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.GetOrCompute(context.Background(), testKey, compute)
			assert.NoError(t, err)
			assert.Equal(t, []string{"computed"}, value)
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&computed))
}

func TestTableCache_Forget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTableStore(ctrl)
	store.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	store.EXPECT().WriteTable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	cache := NewTableCache[[]string](store, namesCodec{}, Options{Bucket: "bucket"})
	compute := func(ctx context.Context) ([]string, error) { return []string{"T NAGAR"}, nil }

	_, err := cache.GetOrCompute(context.Background(), testKey, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	cache.Forget(testKey)
	assert.Equal(t, 0, cache.Len())

	// Após esquecer, a próxima leitura volta ao armazenamento
	_, err = cache.GetOrCompute(context.Background(), testKey, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}
