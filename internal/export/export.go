// Package export renders stored plans as rider-facing files: CSV and JSON
// for analysis, GPX with per-point power extensions, and FIT courses for
// head units.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paceline/internal/store"
)

// Supported output formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatGPX  = "gpx"
	FormatFIT  = "fit"
)

// Formats lists every supported format in output order
var Formats = []string{FormatCSV, FormatJSON, FormatGPX, FormatFIT}

// Files writes the requested formats for a plan into dir, creating the
// directory if needed, and returns the written paths.
func Files(dir string, plan *store.Plan, points []store.PlanPoint, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	for _, format := range formats {
		path := filepath.Join(dir, fmt.Sprintf("%s_plan.%s", slug(plan.Name), format))
		if err := writeFile(path, format, plan, points); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path, format string, plan *store.Plan, points []store.PlanPoint) error {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, points)
	case FormatJSON:
		err = WriteJSON(&buf, plan, points)
	case FormatGPX:
		err = WriteGPX(&buf, plan, points)
	case FormatFIT:
		err = WriteFIT(&buf, plan, points)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// slug makes a plan name safe for filenames
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "plan"
	}
	return b.String()
}
