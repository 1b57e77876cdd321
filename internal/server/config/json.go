package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/assetvault/internal/flagx"
	"github.com/dmitrijs2005/assetvault/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// use timex.Duration so both "5m" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr            string         `json:"http_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	RequiredRole        string         `json:"required_role"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	PresignTTL          timex.Duration `json:"presign_ttl"`
	MaxFileSize         int64          `json:"max_file_size"`
	DownloadURLCacheTTL timex.Duration `json:"download_url_cache_ttl"`
	RedisAddr           string         `json:"redis_addr"`
	CORSOrigin          string         `json:"cors_origin"`
	LogLevel            string         `json:"log_level"`
}

// parseJson loads values from the file named by -c/-config into config.
// Keys absent from the file leave the current value untouched. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		HTTPAddr:            config.HTTPAddr,
		DatabaseDSN:         config.DatabaseDSN,
		SecretKey:           config.SecretKey,
		RequiredRole:        config.RequiredRole,
		S3RootUser:          config.S3RootUser,
		S3RootPassword:      config.S3RootPassword,
		S3Bucket:            config.S3Bucket,
		S3Region:            config.S3Region,
		S3BaseEndpoint:      config.S3BaseEndpoint,
		PresignTTL:          timex.Duration{Duration: config.PresignTTL},
		MaxFileSize:         config.MaxFileSize,
		DownloadURLCacheTTL: timex.Duration{Duration: config.DownloadURLCacheTTL},
		RedisAddr:           config.RedisAddr,
		CORSOrigin:          config.CORSOrigin,
		LogLevel:            config.LogLevel,
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.RequiredRole = c.RequiredRole
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PresignTTL = c.PresignTTL.Duration
	config.MaxFileSize = c.MaxFileSize
	config.DownloadURLCacheTTL = c.DownloadURLCacheTTL.Duration
	config.RedisAddr = c.RedisAddr
	config.CORSOrigin = c.CORSOrigin
	config.LogLevel = c.LogLevel
}
