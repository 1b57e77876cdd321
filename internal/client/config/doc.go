// Package config loads runtime configuration for the uploader.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string         server base URL
//	-t string         bearer access token
//	-access string    key access level (private|public)
//	-m string         description for every file
//	-n int            attempts per file
//	-w duration       delay between attempts
//	-j int            concurrent transfers (0 = all)
//	-timeout duration per-request timeout
//	-journal string   journal directory (empty disables)
//	-l string         log level
//
// # JSON schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://assets.example.com",
//	  "token": "eyJ...",
//	  "max_attempts": 3,
//	  "retry_delay": "0s"
//	}
//
// Everything that is not a flag or a flag value is a file to upload; see
// FlagNames.
package config
