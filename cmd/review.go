package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"rada-console/internal/poller"
	"rada-console/internal/review"
	"rada-console/pkg/models"
)

// reviewRows caps how many events one refresh prints.
const reviewRows = 60

var (
	reviewCamera string
	reviewCycles int
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Follow events as they are synchronized",
	Long: `Polls cameras and events on the configured interval and prints the
filtered event list after every refresh. Stop with Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := setupConsole(ctx)
		fmt.Printf("Status: %s (%s mode)\n", c.status, c.cfg.Mode)

		var (
			view      *review.View
			mu        sync.Mutex
			refreshes int
		)
		done := make(chan struct{})

		view = review.New(c.facade,
			poller.WithInterval(c.cfg.PollInterval),
			poller.WithEventLimit(c.cfg.EventLimit),
			poller.WithLogger(c.logger),
			poller.OnUpdate(func(snap poller.Snapshot) {
				mu.Lock()
				defer mu.Unlock()
				printReview(view, snap)
				refreshes++
				if reviewCycles > 0 && refreshes == reviewCycles {
					close(done)
				}
			}),
		)
		view.SetCamera(reviewCamera)

		if err := view.Open(ctx); err != nil {
			fmt.Printf("Error starting synchronization: %v\n", err)
			os.Exit(1)
		}

		select {
		case <-ctx.Done():
		case <-done:
		}
		view.Close()
		view.Synchronizer().Wait()

		stats := view.Synchronizer().Stats()
		fmt.Printf("Stopped after %d cycles (%d applied, %d failed, %d discarded).\n",
			stats.Cycles, stats.Applied, stats.Failures, stats.Discarded)
	},
}

func printReview(view *review.View, snap poller.Snapshot) {
	events := view.Filtered()

	if jsonOutput {
		printJSON(events)
		return
	}

	fmt.Printf("\n#%d  %s  camera=%s  %d cameras, %d events\n",
		snap.Seq, snap.LoadedAt.Local().Format("15:04:05"), view.Camera(), len(snap.Cameras), len(events))

	if len(events) == 0 {
		fmt.Println("No events.")
		return
	}

	tbl := newTable("ID", "CAMERA", "TYPE", "SEVERITY", "STATE", "STARTED")
	for i, e := range events {
		if i == reviewRows {
			break
		}
		tbl.AddRow(e.ID, models.CameraLabel(snap.Cameras, e.CameraID), e.EventType, e.Severity, stateBadge(e.State), formatTime(e.TsStart))
	}
	fmt.Println(tbl)
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVar(&reviewCamera, "camera", models.AllCameras, "Camera id to filter by, or 'all'")
	reviewCmd.Flags().IntVar(&reviewCycles, "cycles", 0, "Stop after this many refreshes (0 runs until interrupted)")
}
