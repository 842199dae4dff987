package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. A missing file yields nil.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level extracts the slog level from a text ("level=WARN") or JSON
// ("level":"WARN") record. It returns "" when the line has none.
func Level(line string) string {
	for _, marker := range []string{"level=", `"level":"`} {
		i := strings.Index(line, marker)
		if i < 0 {
			continue
		}
		rest := line[i+len(marker):]
		end := strings.IndexAny(rest, ` "`)
		if end >= 0 {
			rest = rest[:end]
		}
		level := strings.ToUpper(rest)
		// slog prints offsets as WARN+2 or INFO-4; keep the base name.
		if j := strings.IndexAny(level, "+-"); j > 0 {
			level = level[:j]
		}
		switch level {
		case "DEBUG", "INFO", "WARN", "ERROR":
			return level
		}
		return ""
	}
	return ""
}
