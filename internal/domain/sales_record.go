package domain

import (
	"fmt"
	"strconv"
)

// SalesRecord é uma linha canônica de vendas por outlet/marca/mês/ano (opcionalmente por dia)
type SalesRecord struct {
	OutletName string  `json:"outlet_name"`
	Brand      string  `json:"brand"`
	Year       int     `json:"year"`
	Month      Month   `json:"-"`
	RawMonth   string  `json:"-"` // Texto original quando o mês não foi reconhecido
	Day        *int    `json:"day,omitempty"`
	MTDSales   Measure `json:"mtd_sales"`
	MTDBills   Count   `json:"mtd_bills"`
}

// MonthKnown indica se a linha participa de agrupamentos por mês
func (r SalesRecord) MonthKnown() bool {
	return r.Month.Valid()
}

// MonthText retorna o nome canônico do mês ou o texto original quando não reconhecido
func (r SalesRecord) MonthText() string {
	if r.Month.Valid() {
		return r.Month.String()
	}
	return r.RawMonth
}

// AverageBillValue retorna vendas/contas, ou zero quando não há contas
func (r SalesRecord) AverageBillValue() float64 {
	if !r.MTDBills.Valid || r.MTDBills.Value == 0 || !r.MTDSales.Valid {
		return 0
	}
	return r.MTDSales.Value / float64(r.MTDBills.Value)
}

// Key identifica unicamente a linha dentro de uma tabela normalizada
func (r SalesRecord) Key() string {
	day := ""
	if r.Day != nil {
		day = strconv.Itoa(*r.Day)
	}
	return fmt.Sprintf("%s\x1f%s\x1f%d\x1f%s\x1f%s", r.OutletName, r.Brand, r.Year, r.MonthText(), day)
}

// SalesTable é a tabela canônica de vendas, imutável após a normalização
type SalesTable []SalesRecord
