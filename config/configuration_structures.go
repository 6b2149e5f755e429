package config

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"time"
)

type ServerConfig struct {
	BasePath      string `yaml:"basePath"`
	PublicBaseURL string `yaml:"publicBaseURL"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

// Enabled : without a bucket ciphertext stays in documents.content
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

type CryptoConfig struct {
	Key string `yaml:"key"`
}

// PrinterCredential : printer agent id with the bcrypt hash of its secret
type PrinterCredential struct {
	ID         string `yaml:"id"`
	SecretHash string `yaml:"secretHash"`
}

type JobsConfig struct {
	MaxUploadBytes           int64         `yaml:"maxUploadBytes"`
	UploadDir                string        `yaml:"uploadDir"`
	DefaultExpirationMinutes int           `yaml:"defaultExpirationMinutes"`
	DefaultExpiryHours       int           `yaml:"defaultExpiryHours"`
	BaseCost                 string        `yaml:"baseCost"`
	CleanupInterval          time.Duration `yaml:"cleanupInterval"`
	PrintTokenTTL            time.Duration `yaml:"printTokenTTL"`
	RateLimit                int           `yaml:"rateLimit"`
	RateWindow               time.Duration `yaml:"rateWindow"`
	CacheTTL                 time.Duration `yaml:"cacheTTL"`
}
