// Package repository contém as implementações SQL do armazenamento de objetos
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

const blobObjectTable = "blob_objects"

// Dialect ajusta placeholders e DDL entre PostgreSQL e SQLite
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) placeholder() squirrel.PlaceholderFormat {
	if d == DialectPostgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

func (d Dialect) blobType() string {
	if d == DialectPostgres {
		return "BYTEA"
	}
	return "BLOB"
}

// DB é satisfeita por *sql.DB e pelas conexões de infrastructure/database
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// BlobObjectRepository guarda objetos em uma tabela (bucket, key) → conteúdo
type BlobObjectRepository struct {
	db      DB
	dialect Dialect
}

func NewBlobObjectRepository(db DB, dialect Dialect) *BlobObjectRepository {
	return &BlobObjectRepository{
		db:      db,
		dialect: dialect,
	}
}

// EnsureSchema cria a tabela de objetos quando ainda não existe
func (r *BlobObjectRepository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	bucket TEXT NOT NULL,
	object_key TEXT NOT NULL,
	content %s NOT NULL,
	size BIGINT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (bucket, object_key)
)`, blobObjectTable, r.dialect.blobType())

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("erro ao criar tabela de objetos: %w", err)
	}
	return nil
}

func (r *BlobObjectRepository) Exists(ctx context.Context, bucket, key string) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From(blobObjectTable).
		Where(squirrel.Eq{"bucket": bucket, "object_key": key}).
		Limit(1).
		PlaceholderFormat(r.dialect.placeholder()).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("erro ao executar a query: %w", err)
	}
	return true, nil
}

func (r *BlobObjectRepository) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	query, args, err := squirrel.
		Select("content").
		From(blobObjectTable).
		Where(squirrel.Eq{"bucket": bucket, "object_key": key}).
		PlaceholderFormat(r.dialect.placeholder()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var content []byte
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&content); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	return content, nil
}

// Put insere ou substitui o conteúdo do objeto
func (r *BlobObjectRepository) Put(ctx context.Context, bucket, key string, data []byte) error {
	query, args, err := squirrel.
		Insert(blobObjectTable).
		Columns("bucket", "object_key", "content", "size", "updated_at").
		Values(bucket, key, data, len(data), time.Now().UTC()).
		Suffix("ON CONFLICT (bucket, object_key) DO UPDATE SET content = excluded.content, size = excluded.size, updated_at = excluded.updated_at").
		PlaceholderFormat(r.dialect.placeholder()).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao gravar objeto: %w", err)
	}
	return nil
}

func (r *BlobObjectRepository) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	builder := squirrel.
		Select("object_key").
		From(blobObjectTable).
		Where(squirrel.Eq{"bucket": bucket}).
		OrderBy("object_key ASC").
		PlaceholderFormat(r.dialect.placeholder())

	if prefix != "" {
		builder = builder.Where(squirrel.Like{"object_key": escapeLike(prefix) + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("erro ao escanear chave: %w", err)
		}
		// Curingas do prefixo viram "_" no LIKE; confirma o prefixo exato
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}
	return keys, nil
}

func escapeLike(value string) string {
	return strings.ReplaceAll(value, "%", "_")
}
