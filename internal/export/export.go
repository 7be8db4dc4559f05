// Package export serializes templates to files and reads them back through
// the manual import path.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/timetable-app/timetable/internal/importer"
	"github.com/timetable-app/timetable/internal/schedule"
)

// Filename derives an export file name from a template name: every
// non-alphanumeric character becomes an underscore, lower-cased, with the
// template suffix appended.
func Filename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.ToLower(b.String()) + "_template.json"
}

// Marshal renders a template as pretty-printed JSON.
func Marshal(t schedule.Template) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return data, nil
}

// Read parses a manually imported template file. Only the legacy
// {name, courses} shape is accepted; the courses go through the same
// validation pipeline as an AI import.
func Read(data []byte, logger *slog.Logger) (importer.Draft, error) {
	drafts, err := importer.Run(data, logger)
	if err != nil {
		return importer.Draft{}, err
	}
	if len(drafts) != 1 {
		return importer.Draft{}, fmt.Errorf("%w: файл шаблона должен содержать один шаблон", importer.ErrMalformedInput)
	}
	return drafts[0], nil
}
