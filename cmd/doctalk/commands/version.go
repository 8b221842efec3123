package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praven80/doctalk/cmd/doctalk/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(*cobra.Command, []string) {
		fmt.Println(build.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
