package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/outlet-dashboard-api/infrastructure/blobstore"
	"github.com/vfg2006/outlet-dashboard-api/infrastructure/cache"
	"github.com/vfg2006/outlet-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/outlet-dashboard-api/infrastructure/database/sqlite"
	"github.com/vfg2006/outlet-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/outlet-dashboard-api/internal/api"
	"github.com/vfg2006/outlet-dashboard-api/internal/config"
	"github.com/vfg2006/outlet-dashboard-api/internal/scheduler"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/caching"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/reporting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := objectStore(ctx, cfg)

	client := blobstore.NewClient(store, blobstore.Config{
		Attempts:  cfg.BlobStore.RetryAttempts,
		BaseDelay: cfg.BlobStore.RetryBaseDelay,
	})

	caches := ingesting.NewCaches(client, caching.Options{
		Bucket: cfg.BlobStore.Bucket,
		Prefix: cfg.BlobStore.Prefix,
	})

	loader := ingesting.NewLoader(client, caches, ingesting.Sources{
		Bucket:       cfg.BlobStore.Bucket,
		SalesKeys:    cfg.Exports.SalesKeys,
		ServiceKeys:  cfg.Exports.ServiceKeys,
		CategoryKeys: cfg.Exports.CategoryKeys,
		KnownOutlets: cfg.Exports.KnownOutlets,
	})

	// Pré-carrega o snapshot; uma falha aqui é repetida na primeira requisição
	if _, err := loader.Snapshot(ctx); err != nil {
		logrus.WithError(err).Warn("Erro ao pré-carregar exports")
	}

	reporter, err := reporting.NewService(cfg, loader)
	if err != nil {
		logrus.Fatal(err)
	}

	exportRefreshService := scheduler.NewExportRefreshService(loader, cfg)
	if err := exportRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de exports")
	} else {
		logrus.Info("Agendador de atualização de exports iniciado com sucesso")
	}

	server, err := api.New(cfg, reporter, exportRefreshService, closeStore)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// objectStore escolhe o backend do armazenamento de objetos conforme BLOB_STORE_DRIVER
func objectStore(ctx context.Context, cfg *config.Config) (blobstore.ObjectStore, func() error) {
	switch cfg.BlobStore.Driver {
	case config.DriverPostgres:
		conn := pgconn(ctx, cfg.Database)
		return blobRepository(ctx, conn, repository.DialectPostgres), conn.Close

	case config.DriverSQLite:
		conn, err := sqlite.NewConnection(ctx, cfg.SQLite)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao abrir o SQLite")
		}
		logrus.WithField("path", cfg.SQLite.Path).Info("Conexão com SQLite estabelecida com sucesso")
		return blobRepository(ctx, conn, repository.DialectSQLite), conn.Close

	case config.DriverRedis:
		store := cache.NewRedisBlobStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := store.Ping(ctx); err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
		}
		logrus.WithField("addr", cfg.Redis.Addr).Info("Conexão com Redis estabelecida com sucesso")
		return store, store.Close

	default:
		logrus.WithField("root", cfg.BlobStore.Root).Info("Usando sistema de arquivos como armazenamento de objetos")
		return blobstore.NewOSStore(cfg.BlobStore.Root), func() error { return nil }
	}
}

func blobRepository(ctx context.Context, db repository.DB, dialect repository.Dialect) *repository.BlobObjectRepository {
	repo := repository.NewBlobObjectRepository(db, dialect)
	if err := repo.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar a tabela de objetos")
	}
	return repo
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
