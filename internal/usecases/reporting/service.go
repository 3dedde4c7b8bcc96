// Package reporting monta as visões do painel a partir do snapshot normalizado
package reporting

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/vfg2006/outlet-dashboard-api/internal/config"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/outlet-dashboard-api/pkg/log"
	"github.com/vfg2006/outlet-dashboard-api/pkg/utils"
)

const (
	defaultCacheSize     = 256
	defaultTopCategories = 15

	servicesUnavailableMessage   = "Dados de serviço indisponíveis; exibindo vendas por marca e por unidade"
	categoriesUnavailableMessage = "Dados de categorias indisponíveis"
	growthUnavailableMessage     = "São necessários ao menos dois anos de vendas para calcular o crescimento"
)

// Service implementa Reporter sobre o snapshot do loader, memorizando resultados por filtro
type Service struct {
	snapshots     SnapshotSource
	memo          *lru.Cache[string, any]
	topCategories int
}

// NewService cria o serviço de relatórios; tamanhos não positivos usam os padrões
func NewService(cfg *config.Config, snapshots SnapshotSource) (Reporter, error) {
	size, top := defaultCacheSize, defaultTopCategories
	if cfg != nil {
		if cfg.Reporting.CacheSize > 0 {
			size = cfg.Reporting.CacheSize
		}
		if cfg.Reporting.TopCategories > 0 {
			top = cfg.Reporting.TopCategories
		}
	}

	memo, err := lru.New[string, any](size)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar memo de relatórios")
	}

	return &Service{snapshots: snapshots, memo: memo, topCategories: top}, nil
}

// remember devolve o resultado memorizado ou o constrói; erros nunca são memorizados
func remember[T any](ctx context.Context, s *Service, key string, build func() (*T, error)) (*T, error) {
	if cached, ok := s.memo.Get(key); ok {
		if value, ok := cached.(*T); ok {
			log.ForContext(ctx).WithField("memo_key", key).Debug("Relatório servido do memo")
			return value, nil
		}
	}

	value, err := build()
	if err != nil {
		return nil, err
	}

	s.memo.Add(key, value)
	return value, nil
}

func memoKey(op string, snapshot *ingesting.Snapshot, params string) string {
	return op + "|" + snapshot.Signature + "|" + params
}

func (s *Service) salesSnapshot(ctx context.Context) (*ingesting.Snapshot, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snapshot.SalesInfo.Available {
		return nil, fmt.Errorf("%w: nenhum export de vendas carregado", domain.ErrDataUnavailable)
	}
	return snapshot, nil
}

func (s *Service) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sales := aggregating.FromSales(snapshot.Sales)
	services := aggregating.FromServices(snapshot.Services)
	categories := aggregating.FromCategories(snapshot.Categories)

	years := append(sales.Years(), services.Years()...)
	sort.Ints(years)

	return &domain.FilterOptions{
		Years:             uniqueInts(years),
		Brands:            sales.Values(aggregating.DimBrand),
		Months:            sales.Values(aggregating.DimMonth),
		Outlets:           sales.Values(aggregating.DimOutlet),
		Centers:           services.Values(aggregating.DimCenter),
		ServiceTypes:      services.Values(aggregating.DimServiceType),
		Categories:        services.Values(aggregating.DimCategory),
		ItemCategories:    union(services.Values(aggregating.DimItemCategory), categories.Values(aggregating.DimItemCategory)),
		BusinessUnits:     union(services.Values(aggregating.DimBusinessUnit), categories.Values(aggregating.DimBusinessUnit)),
		ItemSubcategories: services.Values(aggregating.DimItemSubcategory),
		Datasets: map[string]domain.DatasetStatus{
			"sales":      snapshot.SalesInfo,
			"services":   snapshot.ServicesInfo,
			"categories": snapshot.CategoriesInfo,
		},
		LoadedAt: snapshot.LoadedAt,
	}, nil
}

func (s *Service) SalesOverview(ctx context.Context, query SalesQuery) (*domain.SalesOverview, error) {
	filters, err := salesFilters(query)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.salesSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return remember(ctx, s, memoKey("sales_overview", snapshot, filters.Signature()), func() (*domain.SalesOverview, error) {
		frame, err := aggregating.Filter(aggregating.FromSales(snapshot.Sales), filters)
		if err != nil {
			return nil, err
		}

		totalSales := aggregating.Total(frame, aggregating.MetricSales).Or(0)
		totalBills := aggregating.Total(frame, aggregating.MetricBills).Or(0)

		overview := &domain.SalesOverview{
			Filters:     filterLabels(filters),
			TotalSales:  totalSales,
			TotalBills:  totalBills,
			OutletCount: len(frame.Values(aggregating.DimOutlet)),
		}
		if totalBills > 0 {
			overview.AverageBillValue = utils.RoundWithTwoDecimalPlace(totalSales / totalBills)
		}

		byOutlet, err := aggregating.GroupSum(frame, []aggregating.Dimension{aggregating.DimOutlet}, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		aggregating.SortByValue(byOutlet.Rows)
		overview.SalesByOutlet = namedValues(byOutlet)

		// a tendência só faz sentido sem filtro de mês
		if _, monthFiltered := filters[aggregating.DimMonth]; !monthFiltered {
			trend, err := aggregating.GroupSum(frame, []aggregating.Dimension{aggregating.DimMonth, aggregating.DimYear}, aggregating.MetricSales)
			if err != nil {
				return nil, err
			}
			overview.MonthlyTrend = make([]domain.TrendPoint, 0, len(trend.Rows))
			for _, row := range trend.Rows {
				year, _ := strconv.Atoi(row.Key[1])
				overview.MonthlyTrend = append(overview.MonthlyTrend, domain.TrendPoint{Year: year, Month: row.Key[0], Value: row.Value.Or(0)})
			}
		}

		return overview, nil
	})
}

func (s *Service) OutletAnalysis(ctx context.Context, outlet string) (*domain.OutletAnalysis, error) {
	name := strings.ToUpper(strings.Join(strings.Fields(outlet), " "))
	if name == "" {
		return nil, fmt.Errorf("%w: unidade não informada", domain.ErrUnknownOutlet)
	}

	snapshot, err := s.salesSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return remember(ctx, s, memoKey("outlet_analysis", snapshot, name), func() (*domain.OutletAnalysis, error) {
		frame, err := aggregating.Filter(aggregating.FromSales(snapshot.Sales), aggregating.Filters{aggregating.DimOutlet: name})
		if err != nil {
			return nil, err
		}
		if frame.Len() == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOutlet, name)
		}

		analysis := &domain.OutletAnalysis{
			Outlet:        name,
			Years:         frame.Years(),
			MonthGrowth:   make([]domain.GrowthResult, 0),
			YearGrowth:    make([]domain.GrowthResult, 0),
			DailyAverages: make([]domain.DailyPoint, 0),
		}

		yearly, err := aggregating.GroupSum(frame, []aggregating.Dimension{aggregating.DimYear}, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		analysis.YearlyTotals = namedValues(yearly)

		if analysis.MonthlyByYear, err = aggregating.PivotTable(frame, aggregating.DimMonth, aggregating.DimYear, aggregating.MetricSales); err != nil {
			return nil, err
		}

		if periods := yearPeriods(analysis.Years); len(periods) >= 2 {
			if analysis.MonthGrowth, err = aggregating.GrowthSeries(frame, aggregating.MetricSales, []aggregating.Dimension{aggregating.DimMonth}, periods, aggregating.Consecutive); err != nil {
				return nil, err
			}
			if analysis.YearGrowth, err = aggregating.GrowthSeries(frame, aggregating.MetricSales, nil, periods, aggregating.Consecutive); err != nil {
				return nil, err
			}
			total, err := aggregating.GrowthSeries(frame, aggregating.MetricSales, nil, periods, aggregating.FixedBase)
			if err != nil {
				return nil, err
			}
			if len(total) > 0 {
				analysis.TotalGrowth = &total[0]
			}
		}

		daily, err := aggregating.GroupMean(frame, []aggregating.Dimension{aggregating.DimYear, aggregating.DimMonth, aggregating.DimDay}, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		for _, row := range daily.Rows {
			if !row.Value.Valid {
				continue
			}
			year, _ := strconv.Atoi(row.Key[0])
			day, _ := strconv.Atoi(row.Key[2])
			analysis.DailyAverages = append(analysis.DailyAverages, domain.DailyPoint{Year: year, Month: row.Key[1], Day: day, Value: row.Value.Value})
		}

		return analysis, nil
	})
}

func (s *Service) ServiceAnalysis(ctx context.Context, query ServiceQuery) (*domain.ServiceAnalysis, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if !snapshot.ServicesInfo.Available {
		return s.servicesFallback(ctx, snapshot)
	}

	filters := aggregating.Filters{
		aggregating.DimCenter:          query.Center,
		aggregating.DimServiceType:     query.ServiceType,
		aggregating.DimItemCategory:    query.ItemCategory,
		aggregating.DimBusinessUnit:    query.BusinessUnit,
		aggregating.DimItemSubcategory: query.ItemSubcategory,
	}.Active()

	year := 0
	if text := strings.TrimSpace(query.Year); text != "" && !strings.EqualFold(text, aggregating.AllValues) {
		if year, err = parseYear(text); err != nil {
			return nil, err
		}
	}

	return remember(ctx, s, memoKey("service_analysis", snapshot, strconv.Itoa(year)+"|"+filters.Signature()), func() (*domain.ServiceAnalysis, error) {
		allYears, err := aggregating.Filter(aggregating.FromServices(snapshot.Services), filters)
		if err != nil {
			return nil, err
		}

		years := allYears.Years()
		selected := year
		if selected == 0 && len(years) > 0 {
			selected = years[len(years)-1]
		}

		frame, err := aggregating.Filter(allYears, aggregating.Filters{aggregating.DimYear: strconv.Itoa(selected)})
		if err != nil {
			return nil, err
		}

		analysis := &domain.ServiceAnalysis{
			Available:    true,
			Filters:      filterLabels(filters),
			Year:         selected,
			CenterGrowth: make([]domain.GrowthResult, 0),
		}

		if analysis.ByServiceType, err = serviceMetrics(frame, aggregating.DimServiceType); err != nil {
			return nil, err
		}
		if analysis.ByCenter, err = serviceMetrics(frame, aggregating.DimCenter); err != nil {
			return nil, err
		}

		byCategory, err := aggregating.GroupSum(frame, []aggregating.Dimension{aggregating.DimCategory}, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		aggregating.SortByValue(byCategory.Rows)
		analysis.ByCategory = namedValues(byCategory)

		if analysis.CenterByYear, err = aggregating.PivotTable(allYears, aggregating.DimCenter, aggregating.DimYear, aggregating.MetricSales); err != nil {
			return nil, err
		}

		if periods := yearPeriods(years); len(periods) >= 2 {
			growth, err := aggregating.GrowthSeries(allYears, aggregating.MetricSales, []aggregating.Dimension{aggregating.DimCenter}, periods, aggregating.Consecutive)
			if err != nil {
				return nil, err
			}
			aggregating.SortByGrowth(growth)
			// pares mais recentes primeiro, mantendo a ordem por crescimento dentro de cada par
			sort.SliceStable(growth, func(i, j int) bool {
				return growth[j].ComparePeriod.Before(growth[i].ComparePeriod)
			})
			analysis.CenterGrowth = growth
		}

		return analysis, nil
	})
}

func (s *Service) servicesFallback(ctx context.Context, snapshot *ingesting.Snapshot) (*domain.ServiceAnalysis, error) {
	if !snapshot.SalesInfo.Available {
		return nil, fmt.Errorf("%w: nenhum export de serviços ou vendas carregado", domain.ErrDataUnavailable)
	}

	return remember(ctx, s, memoKey("service_fallback", snapshot, ""), func() (*domain.ServiceAnalysis, error) {
		sales := aggregating.FromSales(snapshot.Sales)

		brandByYear, err := aggregating.PivotTable(sales, aggregating.DimBrand, aggregating.DimYear, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		outletByYear, err := aggregating.PivotTable(sales, aggregating.DimOutlet, aggregating.DimYear, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}

		log.ForContext(ctx).Info("Dados de serviço indisponíveis, usando vendas como alternativa")

		return &domain.ServiceAnalysis{
			Available: false,
			Message:   servicesUnavailableMessage,
			Fallback:  &domain.SalesFallback{BrandByYear: brandByYear, OutletByYear: outletByYear},
		}, nil
	})
}

func (s *Service) CategoryBreakdown(ctx context.Context) (*domain.CategoryBreakdown, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if !snapshot.CategoriesInfo.Available {
		return &domain.CategoryBreakdown{Available: false, Message: categoriesUnavailableMessage}, nil
	}

	return remember(ctx, s, memoKey("category_breakdown", snapshot, strconv.Itoa(s.topCategories)), func() (*domain.CategoryBreakdown, error) {
		frame := aggregating.FromCategories(snapshot.Categories)

		byUnit, err := aggregating.GroupSum(frame, []aggregating.Dimension{aggregating.DimBusinessUnit}, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		aggregating.SortByValue(byUnit.Rows)

		byCategory, err := aggregating.GroupSum(frame, []aggregating.Dimension{aggregating.DimBusinessUnit, aggregating.DimItemCategory}, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}
		top := aggregating.TopN(byCategory, s.topCategories)

		pivot, err := aggregating.PivotTable(frame, aggregating.DimItemCategory, aggregating.DimBusinessUnit, aggregating.MetricSales)
		if err != nil {
			return nil, err
		}

		breakdown := &domain.CategoryBreakdown{
			Available:      true,
			ByBusinessUnit: namedValues(byUnit),
			TopCategories:  make([]domain.CategoryShare, 0, len(top.Rows)),
			Pivot:          pivot,
		}
		for _, row := range top.Rows {
			breakdown.TopCategories = append(breakdown.TopCategories, domain.CategoryShare{
				BusinessUnit: row.Key[0],
				ItemCategory: row.Key[1],
				TotalSales:   row.Value.Or(0),
			})
		}

		return breakdown, nil
	})
}

func (s *Service) GrowthAnalysis(ctx context.Context, query GrowthQuery) (*domain.GrowthAnalysis, error) {
	snapshot, err := s.salesSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	frame := aggregating.FromSales(snapshot.Sales)
	years := frame.Years()
	if len(years) < 2 {
		return &domain.GrowthAnalysis{Available: false, Message: growthUnavailableMessage, Years: years}, nil
	}

	base, compare, err := growthPeriods(query, years)
	if err != nil {
		return nil, err
	}

	return remember(ctx, s, memoKey("growth_analysis", snapshot, base.Label()+">"+compare.Label()), func() (*domain.GrowthAnalysis, error) {
		periods := yearPeriods(years)
		analysis := &domain.GrowthAnalysis{Available: true, Years: years, BasePeriod: base, ComparePeriod: compare}

		total, err := aggregating.GrowthSeries(frame, aggregating.MetricSales, nil, periods, aggregating.FixedBase)
		if err != nil {
			return nil, err
		}
		if len(total) > 0 {
			analysis.TotalGrowth = &total[0]
		}

		if analysis.OutletTotal, err = aggregating.GrowthSeries(frame, aggregating.MetricSales, []aggregating.Dimension{aggregating.DimOutlet}, periods, aggregating.FixedBase); err != nil {
			return nil, err
		}
		aggregating.SortByGrowth(analysis.OutletTotal)

		overall, err := aggregating.GrowthBetween(frame, aggregating.MetricSales, nil, base, compare)
		if err != nil {
			return nil, err
		}
		if len(overall) > 0 {
			analysis.Overall = &overall[0]
		} else {
			amount, percent := aggregating.Growth(0, 0)
			analysis.Overall = &domain.GrowthResult{DimensionKey: []string{}, BasePeriod: base, ComparePeriod: compare, GrowthAmount: amount, GrowthPercent: percent}
		}

		if analysis.ByOutlet, err = aggregating.GrowthBetween(frame, aggregating.MetricSales, []aggregating.Dimension{aggregating.DimOutlet}, base, compare); err != nil {
			return nil, err
		}
		aggregating.SortByGrowth(analysis.ByOutlet)

		if analysis.ByMonth, err = aggregating.GrowthBetween(frame, aggregating.MetricSales, []aggregating.Dimension{aggregating.DimMonth}, base, compare); err != nil {
			return nil, err
		}

		if analysis.ByBrand, err = aggregating.GrowthBetween(frame, aggregating.MetricSales, []aggregating.Dimension{aggregating.DimBrand}, base, compare); err != nil {
			return nil, err
		}
		aggregating.SortByGrowth(analysis.ByBrand)

		return analysis, nil
	})
}
