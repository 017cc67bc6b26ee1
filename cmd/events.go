package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"rada-console/internal/review"
	"rada-console/pkg/models"
)

var (
	eventCamera  string
	eventLimit   int
	snapshotFile string
	saveSnapshot bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Review detection events",
	Long:  `List recent detection events or show the detail of a single event.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent events",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		c := setupConsole(ctx)

		limit := eventLimit
		if limit <= 0 {
			limit = c.cfg.EventLimit
		}

		cameras, err := c.facade.Cameras(ctx)
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}
		events, err := c.facade.Events(ctx, limit)
		if err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}
		events = models.FilterByCamera(events, eventCamera)

		if jsonOutput {
			printJSON(events)
			return
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return
		}

		tbl := newTable("ID", "CAMERA", "TYPE", "SEVERITY", "STATE", "STARTED", "ENDED")
		for _, e := range events {
			tbl.AddRow(
				e.ID,
				models.CameraLabel(cameras, e.CameraID),
				e.EventType,
				e.Severity,
				stateBadge(e.State),
				formatTime(e.TsStart),
				formatOptionalTime(e.TsEnd),
			)
		}
		fmt.Println(tbl)
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <eventId>",
	Short: "Show the detail of one event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		c := setupConsole(ctx)

		detail, err := review.FetchDetail(ctx, c.facade, c.cfg.EventLimit, args[0])
		if err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}
		if detail.State != review.DetailFound {
			fmt.Printf("Event %s not found.\n", args[0])
			os.Exit(1)
		}

		evt := detail.Event
		if cameras, err := c.facade.Cameras(ctx); err == nil {
			detail.Camera = models.CameraLabel(cameras, evt.CameraID)
		}

		if jsonOutput {
			printJSON(evt)
			return
		}

		tbl := newTable("FIELD", "VALUE")
		tbl.AddRow("ID", evt.ID)
		tbl.AddRow("Camera", detail.Camera)
		tbl.AddRow("Type", evt.EventType)
		tbl.AddRow("Severity", evt.Severity)
		tbl.AddRow("State", stateBadge(evt.State))
		tbl.AddRow("Label", evt.Meta.Label)
		tbl.AddRow("Confidence", fmt.Sprintf("%.2f", evt.Meta.Confidence))
		tbl.AddRow("BBox", fmt.Sprintf("%v", evt.Meta.BBox))
		tbl.AddRow("Started", formatTime(evt.TsStart))
		tbl.AddRow("Peak", formatTime(evt.TsPeak))
		tbl.AddRow("Ended", formatOptionalTime(evt.TsEnd))
		if evt.HasSnapshot() {
			tbl.AddRow("Snapshot", c.api.SnapshotURL(*evt.SnapshotURL))
		} else {
			tbl.AddRow("Snapshot", "No snapshot")
		}
		fmt.Println(tbl)

		if !saveSnapshot {
			return
		}
		if !evt.HasSnapshot() {
			fmt.Println("Event has no snapshot to save.")
			return
		}

		imgData, err := c.api.GetSnapshot(ctx, *evt.SnapshotURL)
		if err != nil {
			fmt.Printf("Error getting snapshot: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(snapshotFile, imgData, 0644); err != nil {
			fmt.Printf("Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot saved to %s\n", snapshotFile)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)

	eventsListCmd.Flags().StringVar(&eventCamera, "camera", models.AllCameras, "Camera id to filter by, or 'all'")
	eventsListCmd.Flags().IntVar(&eventLimit, "limit", 0, "Maximum events to request (default from config)")

	eventsShowCmd.Flags().BoolVar(&saveSnapshot, "save-snapshot", false, "Download the event snapshot")
	eventsShowCmd.Flags().StringVar(&snapshotFile, "output", "snapshot.jpg", "Snapshot output filename")
}
