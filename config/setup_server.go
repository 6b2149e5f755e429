package config

import (
	"errors"
	"fmt"
	env "github.com/Netflix/go-env"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"
)

const (
	DefaultServerAddr            = ":3001"
	DefaultBasePath              = "/api/print-jobs"
	DefaultMaxUploadBytes        = 20 * 1024 * 1024
	DefaultUploadDir             = "uploads"
	DefaultExpirationMinutes     = 15
	DefaultExpiryHours           = 24
	DefaultBaseCost              = "0.10"
	DefaultCleanupInterval       = 60 * time.Second
	DefaultPrintTokenTTL         = 60 * time.Second
	DefaultRateLimit             = 10
	DefaultRateWindow            = 60 * time.Second
	DefaultCacheTTL              = 5 * time.Minute
	DefaultPrinterAccessTokenTTL = "12h"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig      `yaml:"databaseConfig"`
	RedisConfig    RedisConfig         `yaml:"redisConfig"`
	ServerAddr     string              `yaml:"serverAddr"`
	Server         ServerConfig        `yaml:"server"`
	S3Config       S3Config            `yaml:"s3Config"`
	JWT            JWTConfig           `yaml:"jwt"`
	Crypto         CryptoConfig        `yaml:"crypto"`
	Jobs           JobsConfig          `yaml:"jobs"`
	Printers       []PrinterCredential `yaml:"printers"`
}

// environment : overrides read from the process environment after config.yaml
type environment struct {
	Port           string `env:"PORT"`
	BasePath       string `env:"BASE_PATH"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	EncryptionKey  string `env:"ENCRYPTION_KEY"`
	JWTSecret      string `env:"JWT_SECRET"`
	UploadDir      string `env:"UPLOAD_DIR"`
	MaxUploadBytes int    `env:"MAX_UPLOAD_BYTES"`
}

// LoadConfig : config.yaml (optional) -> .env (optional) -> environment -> defaults
func LoadConfig(path string) (*AppConfig, error) {
	var cfg AppConfig

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("[config] %s not found, using environment only", path)
	default:
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var environ environment
	if _, err := env.UnmarshalFromEnviron(&environ); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applyEnvironment(environ)
	cfg.applyDefaults()

	return &cfg, nil
}

func (cfg *AppConfig) applyEnvironment(environ environment) {
	override := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}

	if environ.Port != "" {
		cfg.ServerAddr = ":" + environ.Port
	}
	override(&cfg.Server.BasePath, environ.BasePath)
	override(&cfg.Server.PublicBaseURL, environ.PublicBaseURL)
	override(&cfg.DatabaseConfig.DSN, environ.DatabaseURL)
	override(&cfg.RedisConfig.Addr, environ.RedisAddr)
	override(&cfg.RedisConfig.Password, environ.RedisPassword)
	override(&cfg.S3Config.Bucket, environ.S3Bucket)
	override(&cfg.S3Config.Region, environ.S3Region)
	override(&cfg.S3Config.Endpoint, environ.S3Endpoint)
	override(&cfg.Crypto.Key, environ.EncryptionKey)
	override(&cfg.JWT.SecretKey, environ.JWTSecret)
	override(&cfg.Jobs.UploadDir, environ.UploadDir)
	if environ.MaxUploadBytes > 0 {
		cfg.Jobs.MaxUploadBytes = int64(environ.MaxUploadBytes)
	}
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = DefaultServerAddr
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = DefaultBasePath
	}
	if cfg.JWT.AccessTokenTTL == "" {
		cfg.JWT.AccessTokenTTL = DefaultPrinterAccessTokenTTL
	}
	cfg.Jobs.ApplyDefaults()
}

// ApplyDefaults : zero values fall back to the documented defaults
func (c *JobsConfig) ApplyDefaults() {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.DefaultExpirationMinutes <= 0 {
		c.DefaultExpirationMinutes = DefaultExpirationMinutes
	}
	if c.DefaultExpiryHours <= 0 {
		c.DefaultExpiryHours = DefaultExpiryHours
	}
	if c.BaseCost == "" {
		c.BaseCost = DefaultBaseCost
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.PrintTokenTTL <= 0 {
		c.PrintTokenTTL = DefaultPrintTokenTTL
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateWindow <= 0 {
		c.RateWindow = DefaultRateWindow
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
