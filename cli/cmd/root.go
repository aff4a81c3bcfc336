package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "plsqlnorm",
		Short:        "plsqlnorm",
		SilenceUsage: true,
		Long:         `Normalizes and unwraps PL/SQL source files.`,
	}

	verbose bool
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
	return rootCmd.Execute()
}
