package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/outlet-dashboard-api/pkg/apiErrors"
)

// GetFilterOptions retorna os valores disponíveis para os filtros do painel
func GetFilterOptions(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := service.FilterOptions(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar opções de filtro")
			return
		}

		writeJSON(w, r, http.StatusOK, options)
	}
}

// GetSalesOverview retorna a visão geral de vendas (?year, ?brand, ?month)
func GetSalesOverview(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		query := reporting.SalesQuery{
			Year:  params.Get("year"),
			Brand: params.Get("brand"),
			Month: params.Get("month"),
		}

		overview, err := service.SalesOverview(r.Context(), query)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao montar visão geral de vendas")
			return
		}

		writeJSON(w, r, http.StatusOK, overview)
	}
}

func GetOutletAnalysis(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outlet := httprouter.ParamsFromContext(r.Context()).ByName("outlet")
		if outlet == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Unidade não especificada", nil)
			return
		}

		analysis, err := service.OutletAnalysis(r.Context(), outlet)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao analisar unidade")
			return
		}

		writeJSON(w, r, http.StatusOK, analysis)
	}
}

func GetServiceAnalysis(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		query := reporting.ServiceQuery{
			Year:            params.Get("year"),
			Center:          params.Get("center"),
			ServiceType:     params.Get("service_type"),
			ItemCategory:    params.Get("item_category"),
			BusinessUnit:    params.Get("business_unit"),
			ItemSubcategory: params.Get("item_subcategory"),
		}

		analysis, err := service.ServiceAnalysis(r.Context(), query)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao analisar serviços")
			return
		}

		writeJSON(w, r, http.StatusOK, analysis)
	}
}

func GetCategoryBreakdown(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		breakdown, err := service.CategoryBreakdown(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao montar vendas por categoria")
			return
		}

		writeJSON(w, r, http.StatusOK, breakdown)
	}
}

// GetGrowthAnalysis compara dois períodos (?base=2023&compare=2025 ou 2023-03)
func GetGrowthAnalysis(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		query := reporting.GrowthQuery{
			Base:    params.Get("base"),
			Compare: params.Get("compare"),
		}

		analysis, err := service.GrowthAnalysis(r.Context(), query)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao calcular crescimento")
			return
		}

		writeJSON(w, r, http.StatusOK, analysis)
	}
}
