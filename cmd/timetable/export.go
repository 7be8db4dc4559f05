package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/timetable-app/timetable/internal/export"
	"github.com/timetable-app/timetable/internal/home"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/store"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export [template-id]",
	Short: "Export a schedule template to a JSON file",
	Long: `Export a template from the local store to a JSON file.

Without an argument the current template is exported. The file name is
derived from the template name and written to the exports directory
under the timetable home, or to --out-dir.`,
	Args: cobra.MaximumNArgs(1),
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

		t := st.Current()
		if len(args) == 1 {
			t, err = st.Template(args[0])
			if err != nil {
				return err
			}
		}

		data, err := export.Marshal(t)
		if err != nil {
			return err
		}

		outDir := exportOutDir
		if outDir == "" {
			outDir = h.ExportsPath()
		}
		path := filepath.Join(outDir, export.Filename(t.Name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Printf("Exported %q to %s\n", t.Name, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutDir, "out-dir", "", "Directory to write the file to (default: exports dir under home)")

	rootCmd.AddCommand(exportCmd)
}
