package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/outlet-dashboard-api/internal/config"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/ingesting"
)

//go:generate mockgen -destination=mocks/mock_refresher.go -package=mocks . Refresher

// Refresher relê os exports e publica um novo snapshot
type Refresher interface {
	Refresh(ctx context.Context) (*ingesting.Snapshot, error)
}

// ExportRefreshConfig representa a configuração do agendador de atualização dos exports
type ExportRefreshConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// ExportRefreshService agenda a releitura periódica dos exports do armazenamento
type ExportRefreshService struct {
	scheduler *gocron.Scheduler
	config    ExportRefreshConfig
	refresher Refresher

	baseCtx             context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSignature       string
	lastError           string
}

func NewExportRefreshService(refresher Refresher, appConfig *config.Config) *ExportRefreshService {
	refreshConfig := ExportRefreshConfig{
		CronSchedule: appConfig.ExportRefresh.CronSchedule,
		SyncEnabled:  appConfig.ExportRefresh.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": refreshConfig.CronSchedule,
		"sync_enabled":  refreshConfig.SyncEnabled,
	}).Info("Configuração do agendador de atualização de exports carregada")

	return &ExportRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    refreshConfig,
		refresher: refresher,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador; com a atualização desabilitada apenas execuções manuais ficam disponíveis
func (s *ExportRefreshService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		logrus.Info("Atualização agendada de exports desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de atualização de exports")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.Run(ctx); err != nil && !errors.Is(err, ErrRefreshRunning) {
			logrus.WithError(err).Error("Erro na atualização agendada de exports")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização de exports: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de atualização de exports")
		s.scheduler.Stop()
	}()

	return nil
}

// Run executa uma atualização de forma síncrona; execuções concorrentes são recusadas
func (s *ExportRefreshService) Run(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização de exports já em andamento, ignorando")
		return ErrRefreshRunning
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	startTime := time.Now()
	snapshot, err := s.refresher.Refresh(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		return fmt.Errorf("erro ao atualizar exports: %w", err)
	}

	s.lastError = ""
	s.lastSignature = snapshot.Signature
	s.lastSyncCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"duration":  time.Since(startTime).String(),
		"signature": snapshot.Signature,
	}).Info("Atualização de exports concluída")

	return nil
}

// TriggerManualSync dispara uma atualização em segundo plano; retorna false se já houver uma em andamento
func (s *ExportRefreshService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	ctx := s.baseCtx
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Atualização de exports já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando atualização manual de exports")
	go func() {
		if err := s.Run(ctx); err != nil && !errors.Is(err, ErrRefreshRunning) {
			logrus.WithError(err).Error("Erro na atualização manual de exports")
		}
	}()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *ExportRefreshService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_signature":         s.lastSignature,
		"last_error":             s.lastError,
	}
}
