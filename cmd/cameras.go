package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Inspect cameras",
	Long:  `List the camera roster known to the backend (or the mock roster).`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cameras",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		c := setupConsole(ctx)

		cameras, err := c.facade.Cameras(ctx)
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(cameras)
			return
		}

		if len(cameras) == 0 {
			fmt.Println("No cameras configured.")
			return
		}

		tbl := newTable("ID", "NAME", "ZONE")
		for _, cam := range cameras {
			zone := "-"
			if len(cam.Zone) > 0 && string(cam.Zone) != "null" {
				zone = string(cam.Zone)
			}
			tbl.AddRow(cam.ID, cam.Name, zone)
		}
		fmt.Println(tbl)
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)
	camerasCmd.AddCommand(camerasListCmd)
}
