package main

import (
	"fmt"
	"os"

	"github.com/nsw-daq/feconf"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	verbose bool
	noLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "feconf",
	Short: "Front-end register configuration translator",
	Long: `Translate front-end chip configurations between named values, named
register fields and flat register values.

Examples:
  feconf convert -i config.json -o translated.yaml
  feconf flatten -d roc-digital -i values.yaml --reference readback.yaml
  feconf bitstream -d tds -i registers.yaml --partial`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		if !noLog {
			if err := startLogging(home); err != nil {
				return err
			}
		}
		// Find config file, creating it if needed, and read it.
		if err := setupViper(home); err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			viper.Set("verbose", verbose)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		feconf.ProblemLogger.Print(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noLog, "no-log", false, "log to stderr instead of ~/.feconf/logs")
}

// newTransaction tags one command run in the update log.
func newTransaction(what string) string {
	id := ulid.Make().String()
	feconf.UpdateLogger.Printf("[%s] %s", id, what)
	return id
}
