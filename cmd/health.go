package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"rada-console/internal/config"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newConsole()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if c.cfg.Mode == config.ModeMock {
			fmt.Println("Mock mode: no backend is contacted.")
			return
		}

		health, err := c.api.GetHealth(context.Background())
		if jsonOutput && health != nil {
			printJSON(health)
		}
		if err != nil {
			fmt.Printf("%s %s: %v\n", color.RedString("DOWN"), c.cfg.APIBase, err)
			os.Exit(1)
		}
		if !jsonOutput {
			fmt.Printf("%s %s\n", color.GreenString("OK"), c.cfg.APIBase)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
