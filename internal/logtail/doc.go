// Package logtail reads the end of roster's log file.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries while scanning the file
// once, so memory stays O(maxLines) whatever the file size. Lines come back
// oldest first. A maxLines of zero or less returns the whole file, and a
// missing file is treated as empty.
//
//	lines, err := logtail.Read(cfg.LogFile(), 200)
//
// Lines longer than 1 MiB fail the scan with a "read log" error.
//
// # Levels
//
// Level recognizes the level field of slog's text and JSON handlers so the
// logs command can color records:
//
//	level=WARN msg="snapshot write failed"      -> "WARN"
//	{"level":"ERROR","msg":"..."}                -> "ERROR"
package logtail
