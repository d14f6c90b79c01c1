// Package cli wires the importerd commands.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// configPath overrides the default config file location.
	configPath string

	// verbose enables debug logging.
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "importerd",
	Short: "Cloud document import service",
	Long: `Importerd connects organization cloud storage accounts (Dropbox,
Google Drive, Notion) and imports their documents as normalised HTML.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.Version = version
}
