package normalizing

import (
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

// SalesCodec converte a tabela de vendas de/para a forma persistida no blob store
type SalesCodec struct{}

func (SalesCodec) Encode(records domain.SalesTable) (*domain.Table, error) {
	return SalesToTable(records), nil
}

// Decode reaplica a normalização; sobre uma tabela canônica o resultado é idêntico
func (SalesCodec) Decode(table *domain.Table) (domain.SalesTable, error) {
	records, _, err := NormalizeSales(table, Options{Source: "cache"})
	return records, err
}

type ServiceCodec struct{}

func (ServiceCodec) Encode(records domain.ServiceTable) (*domain.Table, error) {
	return ServicesToTable(records), nil
}

func (ServiceCodec) Decode(table *domain.Table) (domain.ServiceTable, error) {
	records, _, err := NormalizeServices(table, Options{Source: "cache"})
	return records, err
}

type CategoryCodec struct{}

func (CategoryCodec) Encode(records domain.CategoryTable) (*domain.Table, error) {
	return CategoriesToTable(records), nil
}

func (CategoryCodec) Decode(table *domain.Table) (domain.CategoryTable, error) {
	records, _, err := NormalizeCategories(table, Options{Source: "cache"})
	return records, err
}
