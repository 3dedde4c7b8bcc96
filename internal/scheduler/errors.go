package scheduler

import "errors"

// ErrRefreshRunning indica que já existe uma atualização de exports em andamento
var ErrRefreshRunning = errors.New("export refresh already running")
