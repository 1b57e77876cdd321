package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/assetvault/internal/flagx"
	"github.com/dmitrijs2005/assetvault/internal/timex"
)

// JsonConfig is the on-disk shape of the uploader configuration.
type JsonConfig struct {
	ServerURL   string         `json:"server_url"`
	Token       string         `json:"token"`
	Access      string         `json:"access"`
	Description string         `json:"description"`
	MaxAttempts int            `json:"max_attempts"`
	RetryDelay  timex.Duration `json:"retry_delay"`
	Concurrency int            `json:"concurrency"`
	Timeout     timex.Duration `json:"timeout"`
	JournalDir  string         `json:"journal_dir"`
	LogLevel    string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing
// from the file keep their current value. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		ServerURL:   cfg.ServerURL,
		Token:       cfg.Token,
		Access:      cfg.Access,
		Description: cfg.Description,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  timex.Duration{Duration: cfg.RetryDelay},
		Concurrency: cfg.Concurrency,
		Timeout:     timex.Duration{Duration: cfg.Timeout},
		JournalDir:  cfg.JournalDir,
		LogLevel:    cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.Token = jc.Token
	cfg.Access = jc.Access
	cfg.Description = jc.Description
	cfg.MaxAttempts = jc.MaxAttempts
	cfg.RetryDelay = jc.RetryDelay.Duration
	cfg.Concurrency = jc.Concurrency
	cfg.Timeout = jc.Timeout.Duration
	cfg.JournalDir = jc.JournalDir
	cfg.LogLevel = jc.LogLevel
}
