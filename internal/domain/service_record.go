package domain

import "fmt"

// ServiceRecord é o agregado canônico por centro/tipo de serviço/categoria/ano
type ServiceRecord struct {
	CenterName       string  `json:"center_name"`
	ServiceType      string  `json:"service_type"`
	Category         string  `json:"category"` // serviço ou produto
	ItemCategory     string  `json:"item_category,omitempty"`
	BusinessUnit     string  `json:"business_unit,omitempty"`
	ItemSubcategory  string  `json:"item_subcategory,omitempty"`
	Year             int     `json:"year"`
	TotalSales       Measure `json:"total_sales"`
	TransactionCount Count   `json:"transaction_count"`
}

// AverageTransaction só é definida quando há transações
func (r ServiceRecord) AverageTransaction() (float64, bool) {
	if !r.TransactionCount.Valid || r.TransactionCount.Value <= 0 || !r.TotalSales.Valid {
		return 0, false
	}
	return r.TotalSales.Value / float64(r.TransactionCount.Value), true
}

func (r ServiceRecord) Key() string {
	return fmt.Sprintf("%s\x1f%s\x1f%s\x1f%s\x1f%s\x1f%s\x1f%d",
		r.CenterName, r.ServiceType, r.Category, r.ItemCategory, r.BusinessUnit, r.ItemSubcategory, r.Year)
}

type ServiceTable []ServiceRecord

// CategoryRecord vem do relatório de categorias (Hair, Skin, Spa e Products)
type CategoryRecord struct {
	BusinessUnit  string  `json:"business_unit"`
	ItemCategory  string  `json:"item_category"`
	TotalSales    Measure `json:"total_sales"`
	TotalQuantity Count   `json:"total_quantity"`
}

func (r CategoryRecord) Key() string {
	return r.BusinessUnit + "\x1f" + r.ItemCategory
}

type CategoryTable []CategoryRecord
