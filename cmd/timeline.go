package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <cameraId>",
	Short: "Show the event timeline of one camera",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		c := setupConsole(ctx)

		entries, err := c.facade.Timeline(ctx, args[0])
		if err != nil {
			fmt.Printf("Error fetching timeline: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(entries)
			return
		}

		if len(entries) == 0 {
			fmt.Printf("No timeline entries for camera %s.\n", args[0])
			return
		}

		tbl := newTable("ID", "TYPE", "SEVERITY", "STATE", "STARTED", "ENDED")
		for _, e := range entries {
			tbl.AddRow(e.ID, e.EventType, e.Severity, stateBadge(e.State), formatTime(e.TsStart), formatOptionalTime(e.TsEnd))
		}
		fmt.Println(tbl)
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}
