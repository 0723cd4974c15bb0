package commands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/meridian-run/meridian/config"
)

// ConfigCmd manages Meridian configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default meridian.toml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "meridian.toml"
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		encoded, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(encoded)
		return err
	},
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}
