package itinerary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Document is a rendered itinerary.
type Document struct {
	Filename     string
	Pages        int
	Footers      []string
	Exchanges    int
	Gallery      []string
	Embedded     int
	Placeholders int

	data []byte
}

// Bytes returns the PDF contents.
func (d *Document) Bytes() []byte {
	return d.data
}

// Save writes the document into dir under its Filename and returns the
// full path. The file appears only once it is complete.
func (d *Document) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".itinerary-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(d.data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write itinerary: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write itinerary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write itinerary: %w", err)
	}

	path := filepath.Join(dir, d.Filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save itinerary: %w", err)
	}
	return path, nil
}

// Filename builds Itinerary_<Destination>_<YYYY-MM-DD>.pdf. Whitespace runs
// become underscores and path separators are replaced.
func Filename(destination string, day time.Time) string {
	name := strings.Join(strings.Fields(destination), "_")
	name = strings.NewReplacer("/", "-", `\`, "-").Replace(name)
	if name == "" {
		name = fallbackName
	}
	return fmt.Sprintf("Itinerary_%s_%s.pdf", name, day.Format("2006-01-02"))
}
