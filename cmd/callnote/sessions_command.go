package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"callnote/internal/model/call"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var day string
	var unrecognizedOnly bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List reconstructed call sessions for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = call.Day(time.Now())
			}

			sessions, err := ctx.newBuilder().Sessions(day, unrecognizedOnly)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Printf("no sessions logged on %s\n", day)
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, sum := range sessions {
				rows = append(rows, []string{
					sum.SessionID,
					sum.CustomerName,
					string(sum.CustomerStatus),
					strconv.Itoa(sum.MessageCount),
					sum.StartedAt.UTC().Format(time.RFC3339),
				})
			}
			fmt.Println(renderTable(
				[]string{"SESSION", "CUSTOMER", "STATUS", "MESSAGES", "STARTED"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to inspect (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&unrecognizedOnly, "unrecognized", false, "Only sessions without a recognized customer")
	return cmd
}
