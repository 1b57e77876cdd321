package config

import "time"

// Config holds runtime settings for the uploader.
//
// Fields:
//   - ServerURL: base URL of the AssetVault server.
//   - Token: bearer access token carrying the required role.
//   - Access: "private" or "public"; encoded in generated storage keys.
//   - Description: description attached to every uploaded file.
//   - MaxAttempts: transfer attempts per file before it is reconciled.
//   - RetryDelay: pause between attempts; zero retries immediately.
//   - Concurrency: files transferred at once; zero means all of them.
//   - Timeout: per-request timeout for API calls and single transfers.
//   - JournalDir: directory of the local journal of in-flight uploads;
//     empty disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL   string
	Token       string
	Access      string
	Description string
	MaxAttempts int
	RetryDelay  time.Duration
	Concurrency int
	Timeout     time.Duration
	JournalDir  string
	LogLevel    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Token = ""
	c.Access = "private"
	c.Description = ""
	c.MaxAttempts = 3
	c.RetryDelay = 0
	c.Concurrency = 0
	c.Timeout = 2 * time.Minute
	c.JournalDir = ".assetvault"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
