package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timetable-app/timetable/internal/home"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/store"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List schedule templates in the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		kv, err := storage.NewFileKV(h.DataPath())
		if err != nil {
			return err
		}
		st := store.New(kv, logger)

		doc := st.Snapshot()
		for _, t := range doc.Templates {
			marker := " "
			if t.ID == doc.CurrentTemplateID {
				marker = "*"
			}
			fmt.Printf("%s %-36s %-30s %d courses\n", marker, t.ID, t.Name, len(t.Courses))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
