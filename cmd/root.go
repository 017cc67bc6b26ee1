package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"rada-console/internal/config"
)

var cfgFile string
var jsonOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rada-console",
	Short: "Data layer of the rada security console",
	Long: `Review cameras and detection events from the rada backend, or from the
built-in mock generator when no backend is running.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rada-console.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	rootCmd.PersistentFlags().String("mode", "", "Data source: mock or live (default mock)")
	rootCmd.PersistentFlags().String("api-base", "", "Backend base URL (default http://127.0.0.1:8000)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	_ = viper.BindPFlag(config.KeyMode, rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag(config.KeyAPIBase, rootCmd.PersistentFlags().Lookup("api-base"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}
