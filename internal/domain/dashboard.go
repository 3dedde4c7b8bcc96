package domain

import "time"

// Matrix é uma tabela linha × coluna pronta para exibição; células sem dados valem zero
type Matrix struct {
	RowDimension    string      `json:"row_dimension"`
	ColumnDimension string      `json:"column_dimension"`
	Metric          string      `json:"metric"`
	Rows            []string    `json:"rows"`
	Columns         []string    `json:"columns"`
	Cells           [][]float64 `json:"cells"`
}

// Cell retorna o valor da célula ou zero quando a combinação não existe
func (m *Matrix) Cell(row, column string) float64 {
	for i, r := range m.Rows {
		if r != row {
			continue
		}
		for j, c := range m.Columns {
			if c == column {
				return m.Cells[i][j]
			}
		}
	}
	return 0
}

type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type TrendPoint struct {
	Year  int     `json:"year"`
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type DailyPoint struct {
	Year  int     `json:"year"`
	Month string  `json:"month"`
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// DatasetStatus informa a origem e a disponibilidade de um conjunto de dados
type DatasetStatus struct {
	Available bool     `json:"available"`
	Files     []string `json:"files"`
	Failed    []string `json:"failed,omitempty"`
	Rows      int      `json:"rows"`
}

type FilterOptions struct {
	Years             []int                    `json:"years"`
	Brands            []string                 `json:"brands"`
	Months            []string                 `json:"months"`
	Outlets           []string                 `json:"outlets"`
	Centers           []string                 `json:"centers"`
	ServiceTypes      []string                 `json:"service_types"`
	Categories        []string                 `json:"categories"`
	ItemCategories    []string                 `json:"item_categories"`
	BusinessUnits     []string                 `json:"business_units"`
	ItemSubcategories []string                 `json:"item_subcategories"`
	Datasets          map[string]DatasetStatus `json:"datasets"`
	LoadedAt          time.Time                `json:"loaded_at"`
}

type SalesOverview struct {
	Filters          map[string]string `json:"filters"`
	TotalSales       float64           `json:"total_sales"`
	TotalBills       float64           `json:"total_bills"`
	AverageBillValue float64           `json:"average_bill_value"`
	OutletCount      int               `json:"outlet_count"`
	SalesByOutlet    []NamedValue      `json:"sales_by_outlet"`
	MonthlyTrend     []TrendPoint      `json:"monthly_trend,omitempty"`
}

type OutletAnalysis struct {
	Outlet        string         `json:"outlet"`
	Years         []int          `json:"years"`
	YearlyTotals  []NamedValue   `json:"yearly_totals"`
	MonthlyByYear *Matrix        `json:"monthly_by_year"`
	MonthGrowth   []GrowthResult `json:"month_growth"`
	YearGrowth    []GrowthResult `json:"year_growth"`
	TotalGrowth   *GrowthResult  `json:"total_growth,omitempty"`
	DailyAverages []DailyPoint   `json:"daily_averages"`
}

// ServiceMetrics agrega vendas e transações; a média só existe com transações
type ServiceMetrics struct {
	Name               string   `json:"name"`
	TotalSales         float64  `json:"total_sales"`
	TransactionCount   float64  `json:"transaction_count"`
	AverageTransaction *float64 `json:"average_transaction,omitempty"`
}

// SalesFallback substitui a análise de serviços quando não há dados de serviço
type SalesFallback struct {
	BrandByYear  *Matrix `json:"brand_by_year"`
	OutletByYear *Matrix `json:"outlet_by_year"`
}

type ServiceAnalysis struct {
	Available     bool              `json:"available"`
	Message       string            `json:"message,omitempty"`
	Filters       map[string]string `json:"filters,omitempty"`
	Year          int               `json:"year,omitempty"`
	ByServiceType []ServiceMetrics  `json:"by_service_type,omitempty"`
	ByCategory    []NamedValue      `json:"by_category,omitempty"`
	ByCenter      []ServiceMetrics  `json:"by_center,omitempty"`
	CenterByYear  *Matrix           `json:"center_by_year,omitempty"`
	CenterGrowth  []GrowthResult    `json:"center_growth,omitempty"`
	Fallback      *SalesFallback    `json:"fallback,omitempty"`
}

type CategoryShare struct {
	BusinessUnit string  `json:"business_unit"`
	ItemCategory string  `json:"item_category"`
	TotalSales   float64 `json:"total_sales"`
}

type CategoryBreakdown struct {
	Available      bool            `json:"available"`
	Message        string          `json:"message,omitempty"`
	ByBusinessUnit []NamedValue    `json:"by_business_unit,omitempty"`
	TopCategories  []CategoryShare `json:"top_categories,omitempty"`
	Pivot          *Matrix         `json:"pivot,omitempty"`
}

type GrowthAnalysis struct {
	Available     bool           `json:"available"`
	Message       string         `json:"message,omitempty"`
	Years         []int          `json:"years"`
	TotalGrowth   *GrowthResult  `json:"total_growth,omitempty"`
	OutletTotal   []GrowthResult `json:"outlet_total_growth,omitempty"`
	BasePeriod    Period         `json:"base_period"`
	ComparePeriod Period         `json:"compare_period"`
	Overall       *GrowthResult  `json:"overall,omitempty"`
	ByOutlet      []GrowthResult `json:"by_outlet,omitempty"`
	ByMonth       []GrowthResult `json:"by_month,omitempty"`
	ByBrand       []GrowthResult `json:"by_brand,omitempty"`
}
