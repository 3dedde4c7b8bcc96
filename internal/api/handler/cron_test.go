package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/outlet-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/outlet-dashboard-api/pkg/apiErrors"
)

type stubCronJob struct {
	started  bool
	triggers int
}

func (s *stubCronJob) TriggerManualSync() bool {
	s.triggers++
	return s.started
}

func (s *stubCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_enabled": false, "last_signature": "abc"}
}

func TestRunCronJob(t *testing.T) {
	tests := []struct {
		name         string
		job          *stubCronJob
		target       string
		wantStatus   int
		wantCode     string
		wantTriggers int
	}{
		{
			name:         "Atualização de exports disparada",
			job:          &stubCronJob{started: true},
			target:       "/v1/cron/exports/run",
			wantStatus:   http.StatusAccepted,
			wantTriggers: 1,
		},
		{
			name:         "Atualização já em andamento",
			job:          &stubCronJob{started: false},
			target:       "/v1/cron/all/run",
			wantStatus:   http.StatusConflict,
			wantTriggers: 1,
		},
		{
			name:       "Tipo inválido",
			job:        &stubCronJob{started: true},
			target:     "/v1/cron/meta/run",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name:       "Serviço não configurado",
			target:     "/v1/cron/exports/run",
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   apiErrors.ErrJobUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := CronJobServices{}
			if tt.job != nil {
				services.ExportRefreshService = tt.job
			}

			rt := router.New(router.WithRoutes(CronJobs(services)...))
			rec := serve(t, rt, http.MethodPost, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
			}
			if tt.job != nil {
				assert.Equal(t, tt.wantTriggers, tt.job.triggers)
			}
		})
	}
}

func TestGetCronStatus(t *testing.T) {
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{ExportRefreshService: &stubCronJob{}})...))

	rec := serve(t, rt, http.MethodGet, "/v1/cron/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exports":{`)
	assert.Contains(t, rec.Body.String(), `"last_signature":"abc"`)
}
