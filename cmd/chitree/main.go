package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logLevel  string
	logFormat string
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "chitree",
		Short: "chitree is a tool to grow decision trees",
		Long: `A tool to grow decision trees from your data using information gain
and a chi-squared significance test to decide when to stop branching out, and
to evaluate them against test data`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setupLogging()
		},
	}
	rootCmd.PersistentFlags().StringVar(&(config.logLevel), "log-level", "info", "Logging level: info, error or debug")
	rootCmd.PersistentFlags().StringVar(&(config.logFormat), "log-format", "pretty", "Logging format: pretty or json")
	rootCmd.AddCommand(versionCmd(), growCmd(config), splitCmd(config))
	return rootCmd
}
