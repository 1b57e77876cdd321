package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/assetvault/internal/flagx"
)

// FlagNames lists every flag that takes a value, including -c/-config. The
// uploader uses it to tell file arguments apart from flag values.
var FlagNames = []string{"-a", "-t", "-access", "-m", "-n", "-w", "-j", "-timeout", "-journal", "-l", "-c", "-config"}

// parseFlags populates Config fields from command-line flags. Unknown
// arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-access", "-m", "-n", "-w", "-j", "-timeout", "-journal", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer access token")
	fs.StringVar(&cfg.Access, "access", cfg.Access, "key access level (private|public)")
	fs.StringVar(&cfg.Description, "m", cfg.Description, "description for every file")
	fs.IntVar(&cfg.MaxAttempts, "n", cfg.MaxAttempts, "attempts per file")
	fs.DurationVar(&cfg.RetryDelay, "w", cfg.RetryDelay, "delay between attempts")
	fs.IntVar(&cfg.Concurrency, "j", cfg.Concurrency, "concurrent transfers (0 = all)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	fs.StringVar(&cfg.JournalDir, "journal", cfg.JournalDir, "journal directory (empty disables)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
