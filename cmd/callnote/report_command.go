package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"callnote/internal/model/call"
	"callnote/internal/service/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var day string
	var format string
	var out string
	var unrecognizedOnly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build and export the daily sales-activity report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = call.Day(time.Now())
			}

			daily, err := ctx.newBuilder().Build(day, unrecognizedOnly)
			if err != nil {
				return err
			}

			var document string
			switch format {
			case "markdown", "md":
				document = report.RenderMarkdown(daily)
			case "csv":
				document = report.RenderCSV(daily)
			default:
				return fmt.Errorf("unsupported format %q (markdown or csv)", format)
			}

			if out == "" {
				fmt.Print(document)
				return nil
			}
			if err := os.WriteFile(out, []byte(document), 0o644); err != nil {
				return err
			}
			fmt.Printf("report for %s written to %s (%d customers)\n", day, out, daily.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to report on (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Export format: markdown or csv")
	cmd.Flags().StringVar(&out, "out", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&unrecognizedOnly, "unrecognized", false, "Only customers still unrecognized")
	return cmd
}
