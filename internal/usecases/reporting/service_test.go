package reporting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/outlet-dashboard-api/internal/config"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/reporting/mocks"
	"go.uber.org/mock/gomock"
)

func day(d int) *int {
	return &d
}

func sampleSnapshot() *ingesting.Snapshot {
	return &ingesting.Snapshot{
		Sales: domain.SalesTable{
			{OutletName: "T NAGAR", Brand: "Naturals", Year: 2023, Month: domain.January, MTDSales: domain.Amount(100000), MTDBills: domain.Quantity(500)},
			{OutletName: "T NAGAR", Brand: "Naturals", Year: 2025, Month: domain.January, MTDSales: domain.Amount(150000), MTDBills: domain.Quantity(600)},
			{OutletName: "ADYAR", Brand: "Green Trends", Year: 2023, Month: domain.March, MTDSales: domain.Amount(200), MTDBills: domain.Quantity(0)},
			{OutletName: "T NAGAR", Brand: "Naturals", Year: 2025, Month: domain.February, Day: day(3), MTDSales: domain.Amount(400), MTDBills: domain.Quantity(4)},
			{OutletName: "T NAGAR", Brand: "Naturals", Year: 2025, Month: domain.February, Day: day(4), MTDSales: domain.Amount(600), MTDBills: domain.Quantity(6)},
		},
		Services: domain.ServiceTable{
			{CenterName: "T NAGAR", ServiceType: "Hair Cut", Category: "Service", BusinessUnit: "Hair", ItemCategory: "Cut", Year: 2024, TotalSales: domain.Amount(5000), TransactionCount: domain.Quantity(50)},
			{CenterName: "T NAGAR", ServiceType: "Shampoo", Category: "Product", Year: 2024, TotalSales: domain.Amount(1000), TransactionCount: domain.Quantity(0)},
			{CenterName: "ADYAR", ServiceType: "Hair Cut", Category: "Service", Year: 2024, TotalSales: domain.Amount(3000), TransactionCount: domain.Quantity(30)},
			{CenterName: "T NAGAR", ServiceType: "Hair Cut", Category: "Service", Year: 2025, TotalSales: domain.Amount(6000), TransactionCount: domain.Quantity(60)},
			{CenterName: "ADYAR", ServiceType: "Hair Cut", Category: "Service", Year: 2025, TotalSales: domain.Amount(4500), TransactionCount: domain.Quantity(20)},
		},
		Categories: domain.CategoryTable{
			{BusinessUnit: "Hair", ItemCategory: "Cut", TotalSales: domain.Amount(500)},
			{BusinessUnit: "Hair", ItemCategory: "Color", TotalSales: domain.Amount(900)},
			{BusinessUnit: "Skin", ItemCategory: "Facial", TotalSales: domain.Amount(700)},
		},
		SalesInfo:      ingesting.Dataset{Available: true, Files: []string{"exports/sales.csv"}, Rows: 5},
		ServicesInfo:   ingesting.Dataset{Available: true, Files: []string{"exports/services.csv"}, Rows: 5},
		CategoriesInfo: ingesting.Dataset{Available: true, Files: []string{"exports/categories.csv"}, Rows: 3},
		Signature:      "abc123",
	}
}

func newTestReporter(t *testing.T, snapshot *ingesting.Snapshot) reporting.Reporter {
	t.Helper()

	ctrl := gomock.NewController(t)
	source := mocks.NewMockSnapshotSource(ctrl)
	source.EXPECT().Snapshot(gomock.Any()).Return(snapshot, nil).AnyTimes()

	cfg := &config.Config{Reporting: config.Reporting{CacheSize: 16, TopCategories: 2}}
	reporter, err := reporting.NewService(cfg, source)
	require.NoError(t, err)
	return reporter
}

func TestService_FilterOptions(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())

	options, err := reporter.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{2023, 2024, 2025}, options.Years)
	assert.Equal(t, []string{"Green Trends", "Naturals"}, options.Brands)
	assert.Equal(t, []string{"January", "February", "March"}, options.Months)
	assert.Equal(t, []string{"ADYAR", "T NAGAR"}, options.Outlets)
	assert.Equal(t, []string{"Hair Cut", "Shampoo"}, options.ServiceTypes)
	assert.Equal(t, []string{"Color", "Cut", "Facial"}, options.ItemCategories)
	assert.Equal(t, []string{"Hair", "Skin"}, options.BusinessUnits)
	assert.True(t, options.Datasets["categories"].Available)
}

func TestService_SalesOverview(t *testing.T) {
	tests := []struct {
		name        string
		query       reporting.SalesQuery
		totalSales  float64
		totalBills  float64
		average     float64
		outletCount int
		outlets     []string
		trendLen    int
		wantErr     error
	}{
		{
			name:        "Sem filtros",
			query:       reporting.SalesQuery{Year: "All", Brand: "All", Month: "All"},
			totalSales:  251200,
			totalBills:  1110,
			average:     226.31,
			outletCount: 2,
			outlets:     []string{"T NAGAR", "ADYAR"},
			trendLen:    4,
		},
		{
			name:        "Marca sem comandas tem ticket médio zero",
			query:       reporting.SalesQuery{Year: "2023", Brand: "green trends"},
			totalSales:  200,
			totalBills:  0,
			average:     0,
			outletCount: 1,
			outlets:     []string{"ADYAR"},
			trendLen:    1,
		},
		{
			name:        "Filtro de mês abreviado remove a tendência",
			query:       reporting.SalesQuery{Month: "jan"},
			totalSales:  250000,
			totalBills:  1100,
			average:     227.27,
			outletCount: 1,
			outlets:     []string{"T NAGAR"},
			trendLen:    0,
		},
		{
			name:    "Mês inválido",
			query:   reporting.SalesQuery{Month: "Trimestre"},
			wantErr: domain.ErrInvalidPeriod,
		},
		{
			name:    "Ano inválido",
			query:   reporting.SalesQuery{Year: "20x3"},
			wantErr: domain.ErrInvalidPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := newTestReporter(t, sampleSnapshot())

			overview, err := reporter.SalesOverview(context.Background(), tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.totalSales, overview.TotalSales)
			assert.Equal(t, tt.totalBills, overview.TotalBills)
			assert.InDelta(t, tt.average, overview.AverageBillValue, 1e-9)
			assert.Equal(t, tt.outletCount, overview.OutletCount)
			assert.Len(t, overview.MonthlyTrend, tt.trendLen)

			names := make([]string, 0, len(overview.SalesByOutlet))
			for _, item := range overview.SalesByOutlet {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.outlets, names)
		})
	}
}

func TestService_SalesOverview_TrendInCalendarOrder(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())

	overview, err := reporter.SalesOverview(context.Background(), reporting.SalesQuery{})
	require.NoError(t, err)

	expected := []domain.TrendPoint{
		{Year: 2023, Month: "January", Value: 100000},
		{Year: 2025, Month: "January", Value: 150000},
		{Year: 2025, Month: "February", Value: 1000},
		{Year: 2023, Month: "March", Value: 200},
	}
	assert.Equal(t, expected, overview.MonthlyTrend)
}

func TestService_SalesOverview_Memoized(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())
	ctx := context.Background()

	first, err := reporter.SalesOverview(ctx, reporting.SalesQuery{Year: "2025"})
	require.NoError(t, err)

	// "All" e vazio produzem a mesma assinatura de filtros
	second, err := reporter.SalesOverview(ctx, reporting.SalesQuery{Year: "2025", Brand: "All"})
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := reporter.SalesOverview(ctx, reporting.SalesQuery{Year: "2023"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestService_SalesOverview_SalesUnavailable(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Sales = nil
	snapshot.SalesInfo = ingesting.Dataset{}

	reporter := newTestReporter(t, snapshot)

	_, err := reporter.SalesOverview(context.Background(), reporting.SalesQuery{})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestService_SnapshotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSnapshotSource(ctrl)
	loadErr := errors.New("falha ao carregar")
	source.EXPECT().Snapshot(gomock.Any()).Return(nil, loadErr)

	reporter, err := reporting.NewService(nil, source)
	require.NoError(t, err)

	_, err = reporter.FilterOptions(context.Background())
	assert.ErrorIs(t, err, loadErr)
}

func TestService_OutletAnalysis(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())

	analysis, err := reporter.OutletAnalysis(context.Background(), "  t   nagar ")
	require.NoError(t, err)

	assert.Equal(t, "T NAGAR", analysis.Outlet)
	assert.Equal(t, []int{2023, 2025}, analysis.Years)
	assert.Equal(t, []domain.NamedValue{{Name: "2023", Value: 100000}, {Name: "2025", Value: 151000}}, analysis.YearlyTotals)

	assert.Equal(t, []string{"January", "February"}, analysis.MonthlyByYear.Rows)
	assert.Equal(t, 150000.0, analysis.MonthlyByYear.Cell("January", "2025"))
	assert.Equal(t, 0.0, analysis.MonthlyByYear.Cell("February", "2023"))

	require.Len(t, analysis.MonthGrowth, 2)
	assert.Equal(t, []string{"January"}, analysis.MonthGrowth[0].DimensionKey)
	assert.Equal(t, "50.00%", analysis.MonthGrowth[0].GrowthPercent.String())
	assert.Equal(t, []string{"February"}, analysis.MonthGrowth[1].DimensionKey)
	assert.Equal(t, domain.PercentUnbounded, analysis.MonthGrowth[1].GrowthPercent.State())
	assert.Equal(t, domain.NotAvailableLabel, analysis.MonthGrowth[1].GrowthPercent.String())

	require.Len(t, analysis.YearGrowth, 1)
	require.NotNil(t, analysis.TotalGrowth)
	assert.Equal(t, 51000.0, analysis.TotalGrowth.GrowthAmount)
	assert.Equal(t, "51.00%", analysis.TotalGrowth.GrowthPercent.String())

	assert.Equal(t, []domain.DailyPoint{
		{Year: 2025, Month: "February", Day: 3, Value: 400},
		{Year: 2025, Month: "February", Day: 4, Value: 600},
	}, analysis.DailyAverages)
}

func TestService_OutletAnalysis_Unknown(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())

	for _, outlet := range []string{"PORUR", "   "} {
		_, err := reporter.OutletAnalysis(context.Background(), outlet)
		assert.ErrorIs(t, err, domain.ErrUnknownOutlet)
	}
}

func TestService_ServiceAnalysis(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())
	ctx := context.Background()

	t.Run("Ano padrão é o mais recente", func(t *testing.T) {
		analysis, err := reporter.ServiceAnalysis(ctx, reporting.ServiceQuery{})
		require.NoError(t, err)

		assert.True(t, analysis.Available)
		assert.Equal(t, 2025, analysis.Year)

		require.Len(t, analysis.ByCenter, 2)
		assert.Equal(t, "T NAGAR", analysis.ByCenter[0].Name)
		require.NotNil(t, analysis.ByCenter[1].AverageTransaction)
		assert.Equal(t, 225.0, *analysis.ByCenter[1].AverageTransaction)

		require.Len(t, analysis.CenterGrowth, 2)
		assert.Equal(t, []string{"ADYAR"}, analysis.CenterGrowth[0].DimensionKey)
		assert.Equal(t, "50.00%", analysis.CenterGrowth[0].GrowthPercent.String())
		assert.Equal(t, "0.00%", analysis.CenterGrowth[1].GrowthPercent.String())

		assert.Equal(t, 6000.0, analysis.CenterByYear.Cell("T NAGAR", "2024"))
	})

	t.Run("Tipo de serviço sem transações não tem média", func(t *testing.T) {
		analysis, err := reporter.ServiceAnalysis(ctx, reporting.ServiceQuery{Year: "2024"})
		require.NoError(t, err)

		require.Len(t, analysis.ByServiceType, 2)
		assert.Equal(t, "Hair Cut", analysis.ByServiceType[0].Name)
		assert.Equal(t, 8000.0, analysis.ByServiceType[0].TotalSales)
		assert.Equal(t, 80.0, analysis.ByServiceType[0].TransactionCount)
		assert.Equal(t, "Shampoo", analysis.ByServiceType[1].Name)
		assert.Nil(t, analysis.ByServiceType[1].AverageTransaction)

		assert.Equal(t, []domain.NamedValue{{Name: "Service", Value: 8000}, {Name: "Product", Value: 1000}}, analysis.ByCategory)
	})

	t.Run("Filtro por centro", func(t *testing.T) {
		analysis, err := reporter.ServiceAnalysis(ctx, reporting.ServiceQuery{Year: "2024", Center: "adyar"})
		require.NoError(t, err)

		require.Len(t, analysis.ByCenter, 1)
		assert.Equal(t, "ADYAR", analysis.ByCenter[0].Name)
		assert.Equal(t, map[string]string{"center": "adyar"}, analysis.Filters)
	})

	t.Run("Ano inválido", func(t *testing.T) {
		_, err := reporter.ServiceAnalysis(ctx, reporting.ServiceQuery{Year: "ano"})
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})
}

func TestService_ServiceAnalysis_Fallback(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Services = nil
	snapshot.ServicesInfo = ingesting.Dataset{Failed: []string{"exports/services.csv"}}

	reporter := newTestReporter(t, snapshot)

	analysis, err := reporter.ServiceAnalysis(context.Background(), reporting.ServiceQuery{Year: "2024"})
	require.NoError(t, err)

	assert.False(t, analysis.Available)
	assert.NotEmpty(t, analysis.Message)
	require.NotNil(t, analysis.Fallback)
	assert.Equal(t, 151000.0, analysis.Fallback.BrandByYear.Cell("Naturals", "2025"))
	assert.Equal(t, 200.0, analysis.Fallback.OutletByYear.Cell("ADYAR", "2023"))
	assert.Empty(t, analysis.ByCenter)
}

func TestService_CategoryBreakdown(t *testing.T) {
	reporter := newTestReporter(t, sampleSnapshot())

	breakdown, err := reporter.CategoryBreakdown(context.Background())
	require.NoError(t, err)

	assert.True(t, breakdown.Available)
	assert.Equal(t, []domain.NamedValue{{Name: "Hair", Value: 1400}, {Name: "Skin", Value: 700}}, breakdown.ByBusinessUnit)
	assert.Equal(t, []domain.CategoryShare{
		{BusinessUnit: "Hair", ItemCategory: "Color", TotalSales: 900},
		{BusinessUnit: "Skin", ItemCategory: "Facial", TotalSales: 700},
	}, breakdown.TopCategories)
	assert.Equal(t, 500.0, breakdown.Pivot.Cell("Cut", "Hair"))
	assert.Equal(t, 0.0, breakdown.Pivot.Cell("Cut", "Skin"))
}

func TestService_CategoryBreakdown_Unavailable(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Categories = nil
	snapshot.CategoriesInfo = ingesting.Dataset{}

	reporter := newTestReporter(t, snapshot)

	breakdown, err := reporter.CategoryBreakdown(context.Background())
	require.NoError(t, err)
	assert.False(t, breakdown.Available)
	assert.Empty(t, breakdown.TopCategories)
}

func TestService_GrowthAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		query   reporting.GrowthQuery
		wantErr error
		check   func(t *testing.T, analysis *domain.GrowthAnalysis)
	}{
		{
			name:  "Primeiro e último ano por padrão",
			query: reporting.GrowthQuery{},
			check: func(t *testing.T, analysis *domain.GrowthAnalysis) {
				assert.Equal(t, domain.YearPeriod(2023), analysis.BasePeriod)
				assert.Equal(t, domain.YearPeriod(2025), analysis.ComparePeriod)
				assert.Equal(t, 50800.0, analysis.Overall.GrowthAmount)

				require.Len(t, analysis.ByOutlet, 2)
				assert.Equal(t, []string{"T NAGAR"}, analysis.ByOutlet[0].DimensionKey)
				assert.Equal(t, "51.00%", analysis.ByOutlet[0].GrowthPercent.String())
				assert.Equal(t, "-100.00%", analysis.ByOutlet[1].GrowthPercent.String())

				months := make([]string, 0, len(analysis.ByMonth))
				for _, result := range analysis.ByMonth {
					months = append(months, result.DimensionKey[0])
				}
				assert.Equal(t, []string{"January", "February", "March"}, months)

				require.Len(t, analysis.ByBrand, 2)
				assert.Equal(t, []string{"Naturals"}, analysis.ByBrand[0].DimensionKey)
				require.NotNil(t, analysis.TotalGrowth)
				assert.Equal(t, analysis.Overall.GrowthAmount, analysis.TotalGrowth.GrowthAmount)
			},
		},
		{
			name:  "Comparação entre meses",
			query: reporting.GrowthQuery{Base: "2023-01", Compare: "2025-Jan"},
			check: func(t *testing.T, analysis *domain.GrowthAnalysis) {
				assert.Equal(t, 50000.0, analysis.Overall.GrowthAmount)
				assert.Equal(t, "50.00%", analysis.Overall.GrowthPercent.String())
				require.Len(t, analysis.ByOutlet, 1)
			},
		},
		{
			name:    "Base posterior à comparação",
			query:   reporting.GrowthQuery{Base: "2025", Compare: "2023"},
			wantErr: domain.ErrInvalidPeriod,
		},
		{
			name:    "Granularidades diferentes",
			query:   reporting.GrowthQuery{Base: "2023", Compare: "2025-01"},
			wantErr: domain.ErrInvalidPeriod,
		},
		{
			name:    "Período ilegível",
			query:   reporting.GrowthQuery{Base: "ontem"},
			wantErr: domain.ErrInvalidPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := newTestReporter(t, sampleSnapshot())

			analysis, err := reporter.GrowthAnalysis(context.Background(), tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, analysis)
		})
	}
}

func TestService_GrowthAnalysis_SingleYear(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Sales = snapshot.Sales[:1]

	reporter := newTestReporter(t, snapshot)

	analysis, err := reporter.GrowthAnalysis(context.Background(), reporting.GrowthQuery{})
	require.NoError(t, err)
	assert.False(t, analysis.Available)
	assert.NotEmpty(t, analysis.Message)
	assert.Equal(t, []int{2023}, analysis.Years)
	assert.Nil(t, analysis.Overall)
	assert.Empty(t, analysis.ByOutlet)
}
