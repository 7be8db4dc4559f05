package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timetable-app/timetable/internal/config"
	"github.com/timetable-app/timetable/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage timetable configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the timetable home",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if err := config.WriteDefaultFile(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", h.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
