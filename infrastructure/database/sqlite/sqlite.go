// Package sqlite abre o banco local usado como armazenamento de objetos embutido
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vfg2006/outlet-dashboard-api/internal/config"
	_ "modernc.org/sqlite"
)

type Connection struct {
	*sql.DB
}

func NewConnection(ctx context.Context, cfg config.SQLite) (*Connection, error) {
	dsn := cfg.Path
	if dsn != ":memory:" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite aceita um único escritor; em memória cada conexão seria um banco diferente
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Connection{DB: db}, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
