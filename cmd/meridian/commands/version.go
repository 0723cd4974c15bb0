package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-run/meridian/internal/version"
)

// VersionCmd shows build version information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("meridian %s (%s)\n", version.Version, version.Commit)
	},
}
