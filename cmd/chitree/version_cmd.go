package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in chitree's version
	VersionMajor = 0
	// VersionMinor is the minor number in chitree's version
	VersionMinor = 1
	// VersionPatch is the patch number in chitree's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of chitree",
		Long:  `All software has versions. This is chitree's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chitree v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
