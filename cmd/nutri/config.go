package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ademchenko/nutrimirror/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nutrimirror configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = defaultConfigPath()
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
