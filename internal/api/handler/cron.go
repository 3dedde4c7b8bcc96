package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/outlet-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/outlet-dashboard-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeExports = "exports"
	CronJobTypeAll     = "all"
)

// CronJob é um job agendado que também pode ser disparado manualmente
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	ExportRefreshService CronJob
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeExports, CronJobTypeAll:
			if services.ExportRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrJobUnavailable, "Serviço de atualização de exports não disponível", nil)
				return
			}

			if !services.ExportRefreshService.TriggerManualSync() {
				writeJSON(w, r, http.StatusConflict, map[string]any{
					"message": "Cron job já em execução",
					"type":    cronType,
				})
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: exports, all", nil)
			return
		}

		logger.WithField("job", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.ExportRefreshService != nil {
			status[CronJobTypeExports] = services.ExportRefreshService.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
