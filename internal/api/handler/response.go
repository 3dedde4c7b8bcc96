package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/outlet-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/outlet-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}

// errorCode traduz erros do domínio para os códigos da API
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod):
		return apiErrors.ErrInvalidPeriod
	case errors.Is(err, aggregating.ErrUnknownDimension), errors.Is(err, aggregating.ErrUnknownMetric):
		return apiErrors.ErrInvalidFilter
	case errors.Is(err, domain.ErrUnknownOutlet):
		return apiErrors.ErrResourceNotFound
	case errors.Is(err, domain.ErrDataUnavailable):
		return apiErrors.ErrDataUnavailable
	case errors.Is(err, domain.ErrStorage):
		return apiErrors.ErrStorageOperation
	default:
		return apiErrors.ErrInternalServer
	}
}

// writeServiceError registra e responde um erro vindo do serviço de relatórios
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	code := errorCode(err)
	logger := log.ForContext(r.Context()).WithError(err)

	if apiErrors.StatusFor(code) >= http.StatusInternalServerError {
		logger.Error(message)
		apiErrors.WriteError(w, code, message, nil)
		return
	}

	logger.Warn(message)
	apiErrors.WriteError(w, code, message, err.Error())
}
