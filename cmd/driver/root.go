// Package main is the media driver's process entry point: it wires the
// conductor to a client command ring, sender/receiver mailboxes, the
// admin HTTP surface, and an optional diagnostic tracer, then drives it
// with the spin/yield/park idle strategy spec.md §5 names. Grounded on
// the teacher's cmd/root.go (cobra.Command bootstrap), generalized from a
// developer-tooling CLI (component/linter subcommands) to a long-running
// service with one command and a flag set.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aeron-driver",
	Short: "aeron-driver runs the media driver's conductor agent.",
	Long: `aeron-driver runs the media driver's conductor: the single-threaded ` +
		`control-plane agent that owns publications, subscriptions, and stream ` +
		`images, brokering commands from clients and driving the sender and ` +
		`receiver data-plane agents through their mailboxes.`,
	RunE: runDriver,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("log-dir", "", "directory for memory-mapped log-buffer files (default: config default)")
	flags.String("admin-addr", "", "listen address for the admin HTTP surface, empty to disable")
	flags.String("trace-sqlite", "", "sqlite3 database path for the diagnostic trace recorder, empty to disable")
	flags.String("trace-clickhouse-host", "", "clickhouse host for the diagnostic trace recorder, empty to disable (overrides trace-sqlite)")
	flags.Int("trace-clickhouse-port", 9000, "clickhouse native-protocol port")
	flags.String("trace-clickhouse-database", "default", "clickhouse database")
	flags.String("trace-clickhouse-username", "default", "clickhouse username")
	flags.String("trace-clickhouse-password", "", "clickhouse password")
	flags.String("dotenv", "", "path to a .env file to load before flags are applied")
}

// Execute runs the root command, exiting the process with status 1 on
// failure, matching the teacher's cmd.Execute.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
