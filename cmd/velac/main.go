package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the semantic version of the velac toolchain. Overridable
// at build time via -ldflags.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "velac",
	Short: "Vela type checker toolchain",
	Long:  "velac drives the Vela type checker while the language frontend is built out.",
}

func main() {
	rootCmd.Version = Version

	rootCmd.AddCommand(selfcheckCmd)
	rootCmd.AddCommand(cacheCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|always|never), overrides vela.yaml")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// colorMode resolves the effective color mode from the flag and the
// project configuration.
func colorMode(cmd *cobra.Command) string {
	if flag, _ := cmd.Flags().GetString("color"); flag != "" {
		return flag
	}
	opts, err := loadOptions()
	if err != nil {
		return "auto"
	}
	return opts.Color
}
