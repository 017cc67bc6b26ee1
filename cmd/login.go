package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"rada-console/internal/config"
)

// Variables to hold flag values
var (
	host string
	user string
	pass string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the rada backend",
	Long: `Exchanges a username and password for a bearer token and saves it locally
for future commands. In mock mode any credentials are accepted.

Example:
  rada-console login --mode live --host http://10.0.0.5:8000 -u admin@rada.ai -p secret`,
	Run: func(cmd *cobra.Command, args []string) {
		if host != "" {
			viper.Set(config.KeyAPIBase, strings.TrimRight(host, "/"))
		}
		if cmd.Flags().Changed("username") {
			viper.Set(config.KeyUsername, user)
		}
		if cmd.Flags().Changed("password") {
			viper.Set(config.KeyPassword, pass)
		}

		c, err := newConsole()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Authenticating against %s as user '%s' (%s mode)...\n", c.cfg.APIBase, c.cfg.Username, c.cfg.Mode)

		resp, err := c.session.Login(context.Background(), c.cfg.Username, c.cfg.Password)
		if err != nil {
			fmt.Printf("Login failed: %v\n", err)
			os.Exit(1)
		}

		if c.cfg.Mode == config.ModeMock {
			fmt.Println("Login successful (mock token, not saved).")
			return
		}

		fmt.Println("Login successful. Saving configuration...")
		if err := config.SaveToken(resp.AccessToken); err != nil {
			fmt.Printf("Failed to save configuration file: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Token saved. You can now run commands like 'rada-console events list'.")
	},
}

// logoutCmd drops the persisted token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved access token",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.SaveToken(""); err != nil {
			fmt.Printf("Failed to save configuration file: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Token cleared.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "API base URL (e.g. http://127.0.0.1:8000)")
	loginCmd.Flags().StringVarP(&user, "username", "u", "", "Username (default from config)")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Password (default from config)")
}
