package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	BlobStore     BlobStore     `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	SQLite        SQLite        `mapstructure:",squash"`
	Redis         Redis         `mapstructure:",squash"`
	Exports       Exports       `mapstructure:",squash"`
	Reporting     Reporting     `mapstructure:",squash"`
	ExportRefresh ExportRefresh `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host        string   `mapstructure:"host"`
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_allowed_origins"`
}

const (
	DriverFS       = "fs"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

type BlobStore struct {
	Driver         string        `mapstructure:"blob_store_driver"`
	Root           string        `mapstructure:"blob_store_root"`
	Bucket         string        `mapstructure:"blob_bucket"`
	Prefix         string        `mapstructure:"blob_prefix"`
	RetryAttempts  int           `mapstructure:"blob_retry_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"blob_retry_base_delay"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type SQLite struct {
	Path string `mapstructure:"sqlite_path"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// Exports lista as chaves dos arquivos brutos no bucket; um prefixo terminado em "/" é expandido
type Exports struct {
	SalesKeys    []string `mapstructure:"sales_export_keys"`
	ServiceKeys  []string `mapstructure:"service_export_keys"`
	CategoryKeys []string `mapstructure:"category_export_keys"`
	KnownOutlets []string `mapstructure:"known_outlets"`
}

type Reporting struct {
	CacheSize     int `mapstructure:"report_cache_size"`
	TopCategories int `mapstructure:"top_categories"`
}

type ExportRefresh struct {
	CronSchedule string `mapstructure:"export_refresh_cron"`
	Enabled      bool   `mapstructure:"export_refresh_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("BLOB_STORE_DRIVER", DriverFS)
	viper.SetDefault("BLOB_STORE_ROOT", "./data")
	viper.SetDefault("BLOB_BUCKET", "outlet-reports")
	viper.SetDefault("BLOB_PREFIX", "normalized")
	viper.SetDefault("BLOB_RETRY_ATTEMPTS", 3)
	viper.SetDefault("BLOB_RETRY_BASE_DELAY", "200ms")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/outlets?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("SQLITE_PATH", "./data/blobs.db")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("SALES_EXPORT_KEYS", "exports/sales/")
	viper.SetDefault("SERVICE_EXPORT_KEYS", "exports/services/")
	viper.SetDefault("CATEGORY_EXPORT_KEYS", "exports/categories/")
	viper.SetDefault("KNOWN_OUTLETS", "")

	viper.SetDefault("REPORT_CACHE_SIZE", 256)
	viper.SetDefault("TOP_CATEGORIES", 15)

	// Recarga periódica dos exports; desligada para manter o modelo orientado a requisições
	viper.SetDefault("EXPORT_REFRESH_CRON", "0 */6 * * *")
	viper.SetDefault("EXPORT_REFRESH_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize remove espaços e itens vazios das listas e monta o DSN do PostgreSQL
func (c *Config) normalize() {
	c.Exports.SalesKeys = compact(c.Exports.SalesKeys)
	c.Exports.ServiceKeys = compact(c.Exports.ServiceKeys)
	c.Exports.CategoryKeys = compact(c.Exports.CategoryKeys)
	c.Exports.KnownOutlets = compact(c.Exports.KnownOutlets)
	c.Server.CORSOrigins = compact(c.Server.CORSOrigins)
	c.BlobStore.Driver = strings.ToLower(strings.TrimSpace(c.BlobStore.Driver))

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

func (c *Config) Validate() error {
	switch c.BlobStore.Driver {
	case DriverFS, DriverPostgres, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("BLOB_STORE_DRIVER inválido: %q", c.BlobStore.Driver)
	}

	if c.BlobStore.Bucket == "" {
		return fmt.Errorf("BLOB_BUCKET não informado")
	}

	if len(c.Exports.SalesKeys) == 0 {
		return fmt.Errorf("SALES_EXPORT_KEYS não informado")
	}

	return nil
}

func compact(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
