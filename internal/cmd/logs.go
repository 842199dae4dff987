package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logtail"
	"github.com/five82/roster/internal/style"
)

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	var (
		lines    int
		minLevel string
	)
	cmd := &cobra.Command{
		Use:     "logs",
		GroupID: GroupDiag,
		Short:   "Print the tail of roster's log file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := cfg.LogFile()
			if path == "" {
				return fmt.Errorf("logs go to %s, not a file", cfg.Log.Output)
			}

			minRank, ok := levelRank[strings.ToUpper(strings.TrimSpace(minLevel))]
			if !ok {
				return fmt.Errorf("unknown level %q", minLevel)
			}

			tail, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				fmt.Fprintln(out, style.Dim.Render("No log entries in "+path))
				return nil
			}
			for _, line := range tail {
				level := logtail.Level(line)
				if rank, known := levelRank[level]; known && rank < minRank {
					continue
				}
				fmt.Fprintln(out, style.ForLevel(level).Render(line))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read (0 for all)")
	cmd.Flags().StringVar(&minLevel, "level", "debug", "minimum level to print (debug, info, warn, error)")
	return cmd
}
