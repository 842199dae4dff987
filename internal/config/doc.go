// Package config loads roster's configuration.
//
// # Resolution Order
//
//  1. Defaults
//  2. The TOML file (--config, or ~/.config/roster/config.toml)
//  3. ROSTER_* environment variables
//
// A missing file is not an error. Blank values fall back to defaults.
//
// # Default Values
//
//   - API base: https://jsonplaceholder.typicode.com
//   - Request timeout: 10s
//   - Toast duration: 5s
//   - Refresh interval: 0 (no background refresh)
//   - Snapshot: file backend at ~/.local/share/roster/users.json
//   - Log: info level, ~/.local/state/roster/roster.log
//
// # TOML Format
//
//	api_base = "https://jsonplaceholder.typicode.com"
//	request_timeout = "10s"
//	requests_per_second = 0
//	refresh_interval = "0s"
//	toast_duration = "5s"
//
//	[snapshot]
//	backend = "file"          # file, redis or memory
//	path = "~/.local/share/roster/users.json"
//	redis_addr = "127.0.0.1:6379"
//	redis_key = "roster:users"
//	redis_db = 0
//
//	[log]
//	output = "~/.local/state/roster/roster.log"   # or stdout, stderr, discard
//	level = "info"
//	json = false
//
// Durations use Go syntax ("750ms", "2m"). Tilde expansion applies to the
// snapshot path and a file log output.
//
// # Environment
//
// Each key has an override: ROSTER_API_BASE, ROSTER_REQUEST_TIMEOUT,
// ROSTER_REQUESTS_PER_SECOND, ROSTER_REFRESH_INTERVAL, ROSTER_TOAST_DURATION,
// ROSTER_SNAPSHOT_BACKEND, ROSTER_SNAPSHOT_PATH, ROSTER_SNAPSHOT_REDIS_ADDR,
// ROSTER_SNAPSHOT_REDIS_PASSWORD, ROSTER_SNAPSHOT_REDIS_KEY,
// ROSTER_SNAPSHOT_REDIS_DB, ROSTER_LOG_OUTPUT, ROSTER_LOG_LEVEL and
// ROSTER_LOG_JSON.
//
// # Error Handling
//
// Load fails on unreadable files, invalid TOML, bad durations and
// unparsable environment values. The CLI treats these as fatal.
package config
