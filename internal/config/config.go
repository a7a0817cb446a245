package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Postgres   Postgres   `yaml:"postgres"`
	JWT        JWT        `yaml:"jwt"`
	Minio      Minio      `yaml:"minio"`
	Redis      Redis      `yaml:"redis"`
	Payment    Payment    `yaml:"payment"`
	Analytics  Analytics  `yaml:"analytics"`
	Tracing    Tracing    `yaml:"tracing"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type Minio struct {
	Endpoint  string       `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string       `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string       `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool         `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	Reports   BucketConfig `yaml:"reports"`
}

type BucketConfig struct {
	Name       string        `yaml:"name" env-default:"analytics-reports"`
	PresignTTL time.Duration `yaml:"presign_ttl" env-default:"15m"`
}

type Redis struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
	Channel     string        `yaml:"channel" env:"REDIS_CHANNEL" env-default:"learning-events"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
}

type JWT struct {
	SecretKey string `yaml:"secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	Issuer    string `yaml:"issuer" env-default:"skilltrack"`
}

type Postgres struct {
	Host         string        `yaml:"host" env:"POSTGRES_HOST"`
	Port         string        `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User         string        `yaml:"user" env:"POSTGRES_USER"`
	Password     string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName       string        `yaml:"dbname" env:"POSTGRES_DB"`
	MaxConns     int32         `yaml:"max_conns" env-default:"10"`
	QueryTimeout time.Duration `yaml:"query_timeout" env-default:"3s"`
	Migrate      bool          `yaml:"migrate" env-default:"true"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8081"`
	Timeout        time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

type Payment struct {
	Timeout        time.Duration `yaml:"timeout" env-default:"5s"`
	DeclinedTokens []string      `yaml:"declined_tokens"`
}

type Analytics struct {
	DefaultWindowMonths int `yaml:"default_window_months" env-default:"6"`
	MaxWindowMonths     int `yaml:"max_window_months" env-default:"24"`
	FetchConcurrency    int `yaml:"fetch_concurrency" env-default:"4"`
}

type Tracing struct {
	Enabled     bool   `yaml:"enabled" env:"TRACING_ENABLED"`
	ServiceName string `yaml:"service_name" env-default:"skilltrack"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Can not read config file %s", err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
