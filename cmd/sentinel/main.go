package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardline/sentinel/internal/api"
)

var Version = "dev"

var (
	listenAddr string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - bot and automation detection service",
	Long: `Sentinel classifies visitors as human, suspicious, or bot by combining
HTTP header fingerprinting, a JavaScript execution challenge, and a
browser-environment fingerprint.

Get started:
  sentinel serve    # Start the server`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCmd.Run(cmd, args)
	},
}

func init() {
	api.Version = Version

	rootCmd.PersistentFlags().StringVarP(&listenAddr, "listen", "l", ":4173", "Address to listen on")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.json (default: $SENTINEL_CONFIG or ./config.json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
