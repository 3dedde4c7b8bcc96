package reporting

import (
	"context"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/ingesting"
)

//go:generate mockgen -destination=mocks/mock_reporter.go -package=mocks . Reporter,SnapshotSource

// Reporter define as consultas exibidas pelo painel
type Reporter interface {
	// FilterOptions lista os valores disponíveis para cada filtro
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)

	// SalesOverview consolida vendas, comandas e tendência mensal
	SalesOverview(ctx context.Context, query SalesQuery) (*domain.SalesOverview, error)

	// OutletAnalysis detalha uma unidade por mês, ano e dia
	OutletAnalysis(ctx context.Context, outlet string) (*domain.OutletAnalysis, error)

	// ServiceAnalysis detalha os serviços ou recorre às vendas quando não há dados de serviço
	ServiceAnalysis(ctx context.Context, query ServiceQuery) (*domain.ServiceAnalysis, error)

	// CategoryBreakdown consolida vendas por unidade de negócio e categoria
	CategoryBreakdown(ctx context.Context) (*domain.CategoryBreakdown, error)

	// GrowthAnalysis compara dois períodos por unidade, mês e marca
	GrowthAnalysis(ctx context.Context, query GrowthQuery) (*domain.GrowthAnalysis, error)
}

// SnapshotSource fornece o snapshot atual das tabelas normalizadas
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*ingesting.Snapshot, error)
}

// SalesQuery filtra a visão geral; vazio ou "All" não restringe
type SalesQuery struct {
	Year  string
	Brand string
	Month string
}

type ServiceQuery struct {
	Year            string
	Center          string
	ServiceType     string
	ItemCategory    string
	BusinessUnit    string
	ItemSubcategory string
}

// GrowthQuery aceita "2023" ou "2023-03"; base vazia usa o primeiro ano e comparação vazia o último
type GrowthQuery struct {
	Base    string
	Compare string
}
