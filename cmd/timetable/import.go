package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/timetable-app/timetable/internal/config"
	"github.com/timetable-app/timetable/internal/export"
	"github.com/timetable-app/timetable/internal/extract"
	"github.com/timetable-app/timetable/internal/home"
	"github.com/timetable-app/timetable/internal/importer"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a schedule from a JSON template file or a scanned document",
	Long: `Import a schedule into the local store.

A .json file is read as an exported template. A PDF, PNG or JPEG is sent
to the configured vision model first; this needs the extraction API key
(set through the application settings).

Either way the data goes through the same validation pipeline: course
fields are checked, times are normalized to the canonical grid, and a
malformed input is rejected without touching the store. The imported
template becomes current.`,
	Args: cobra.ExactArgs(1),
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

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var drafts []importer.Draft
		if strings.EqualFold(filepath.Ext(args[0]), ".json") {
			draft, err := export.Read(data, logger)
			if err != nil {
				return err
			}
			drafts = []importer.Draft{draft}
		} else {
			drafts, err = importDocument(cmd, kv, args[0], data, logger)
			if err != nil {
				return err
			}
		}

		added, err := st.MergeImported(drafts)
		if err != nil {
			return err
		}
		for _, t := range added {
			fmt.Printf("Imported %q (%d courses)\n", t.Name, len(t.Courses))
		}
		return nil
	},
}

// importDocument sends a scanned document through the vision extraction
// client and the validation pipeline.
func importDocument(cmd *cobra.Command, kv storage.KV, path string, data []byte, logger *slog.Logger) ([]importer.Draft, error) {
	credential, found, err := kv.Get(storage.APIKeyKey)
	if err != nil {
		return nil, err
	}
	if !found || strings.TrimSpace(credential) == "" {
		return nil, extract.ErrMissingCredential
	}

	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := cm.Get()

	client := extract.NewClient(extract.Config{
		Model:   cfg.Extraction.Model,
		BaseURL: cfg.Extraction.BaseURL,
		Timeout: time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second,
		Logger:  logger,
	})

	doc := extract.Document{
		Data:     data,
		Filename: filepath.Base(path),
	}
	raw, err := client.Extract(cmd.Context(), doc, credential)
	if err != nil {
		return nil, err
	}
	return importer.Run(raw, logger)
}

func init() {
	rootCmd.AddCommand(importCmd)
}
