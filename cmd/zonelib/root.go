package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	password   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "zonelib",
	Short: "CLI client for the zonelib media library",
	Long: `zonelib - CLI client for the zonelib media library

Browse, search, and manage a self-hosted personal media library:
upload files, import from YouTube or Twitter, tag entries, and
attach subtitles.

Run 'zonelibd' to start the server daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "Server URL")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Library password (default: $ZONELIB_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("zonelib {{.Version}}\n")
}

// libraryPassword resolves the credential from the flag or the environment.
func libraryPassword() string {
	if password != "" {
		return password
	}
	return os.Getenv("ZONELIB_PASSWORD")
}
