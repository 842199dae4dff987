// Package app is the composition root for roster.
//
// # Overview
//
// Bootstrap turns configuration into wired components and is shared by the
// TUI and the one-shot CLI commands:
//
//	Bootstrap()
//	  ├─> config.Load()        TOML file + ROSTER_* env
//	  ├─> prefs.Load()         theme, last opened profile
//	  ├─> logging.New()        slog to file/stream
//	  ├─> userapi.NewClient()  HTTP gateway
//	  ├─> snapshot.Open()      file, redis or memory backend
//	  ├─> state.Open()         profile store, hydrated from the snapshot
//	  └─> notify.New()         toast with auto-dismiss
//
// Run adds the optional background refresher and starts the TUI, which
// blocks until the user quits.
//
// # Refresher
//
// With refresh_interval set, StartRefresher calls Store.FetchAllUsers on
// that cadence. After a failed fetch the wait doubles per consecutive
// failure, capped at 30s (calculateBackoff), and drops back to the interval
// after the next success. The refresher never runs concurrently with itself
// but may overlap a fetch or update started from the UI; the store resolves
// such overlaps last-writer-wins.
//
// # Lifecycle
//
// Services.Close stops the toast timer, closes the snapshot backend and
// flushes the log file. The refresher exits with the context passed to Run.
package app
