// Package config loads runtime configuration for the Snappy client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. SNAPPY_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   chat backend base URL
//	-g string   avatar generator base URL
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "avatar_api_url": "https://api.multiavatar.com/45678945",
//	  "db_path": "snappy.db",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	SNAPPY_SERVER_URL, SNAPPY_AVATAR_API_URL, SNAPPY_DB_PATH,
//	SNAPPY_REQUEST_TIMEOUT (Go duration, e.g. "5s"), SNAPPY_LOG_LEVEL
//
// Malformed values in any source cause a panic at startup.
package config
