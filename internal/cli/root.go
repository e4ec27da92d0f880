// Package cli implements the cubectl command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath  string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubectl",
	Short: "Drive a concurrent N×N×N cube",
	Long: `cubectl exercises the concurrentcube library from the command line:
apply algorithms, benchmark concurrent access, and inspect the audit log
of admitted operations.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "audit log database path (default: ~/.concurrentcube/audit.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// getDBPath returns the database path from flag or default.
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "" // storage.OpenDefault will be used
}
