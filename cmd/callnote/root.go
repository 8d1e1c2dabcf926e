package main

import (
	"github.com/spf13/cobra"

	"callnote/internal/detect"
	"callnote/internal/eventlog"
	"callnote/internal/service/correction"
	"callnote/internal/service/report"
)

// commandContext carries the flags shared by every subcommand and builds
// the batch services over the log directory on demand.
type commandContext struct {
	logDir    string
	logPrefix string
}

func (c *commandContext) newBuilder() *report.Builder {
	eventLog := eventlog.NewWithPrefix(c.logDir, c.logPrefix)
	return report.NewBuilder(eventLog, correction.NewStore(eventLog), detect.New(detect.Korean()))
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "callnote",
		Short:         "Batch reporting over callnote transcription logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logDir, "log-dir", "logs", "Directory holding the NDJSON log partitions")
	rootCmd.PersistentFlags().StringVar(&ctx.logPrefix, "log-prefix", "stt-messages", "Message partition file prefix")

	rootCmd.AddCommand(newSessionsCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))

	return rootCmd
}
