package handler

import (
	"net/http"

	"github.com/vfg2006/outlet-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/filters",
			Method:  http.MethodGet,
			Handler: GetFilterOptions(service),
		},
		{
			Path:    "/v1/sales/overview",
			Method:  http.MethodGet,
			Handler: GetSalesOverview(service),
		},
		{
			Path:    "/v1/outlets/:outlet/analysis",
			Method:  http.MethodGet,
			Handler: GetOutletAnalysis(service),
		},
		{
			Path:    "/v1/services/analysis",
			Method:  http.MethodGet,
			Handler: GetServiceAnalysis(service),
		},
		{
			Path:    "/v1/categories/breakdown",
			Method:  http.MethodGet,
			Handler: GetCategoryBreakdown(service),
		},
		{
			Path:    "/v1/growth",
			Method:  http.MethodGet,
			Handler: GetGrowthAnalysis(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
