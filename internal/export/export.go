// Package export writes rendered prompts to markdown files.
//
// A document is "# {title}", a blank line, then the rendered prompt. When
// front matter is enabled the document is preceded by a YAML block recording
// the framework and export time, the same layout prompt files use elsewhere in
// the ecosystem.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/models"
)

// DefaultFilename is used when a title slugifies to nothing
const DefaultFilename = "prompt.md"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases title, collapses every run of characters outside a-z0-9
// into one hyphen and trims leading and trailing hyphens.
func Slugify(title string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// DefaultTitle is the title used when the user has not set one
func DefaultTitle(fw *models.Framework) string {
	return fw.Name + "-prompt"
}

// Filename returns the markdown filename for title
func Filename(title string) string {
	slug := Slugify(title)
	if slug == "" {
		return DefaultFilename
	}
	return slug + ".md"
}

// Document returns the markdown body for an export
func Document(title, output string) string {
	return "# " + title + "\n\n" + output
}

// Meta is the optional YAML front matter of an exported file
type Meta struct {
	Title      string             `yaml:"title"`
	Framework  models.FrameworkID `yaml:"framework"`
	Model      models.ModelKey    `yaml:"model,omitempty"`
	Vibe       models.VibeKey     `yaml:"vibe,omitempty"`
	ExportedAt time.Time          `yaml:"exported_at"`
}

// DocumentWithMeta prefixes Document with a YAML front matter block
func DocumentWithMeta(meta Meta, output string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	yamlData, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	buf.Write(yamlData)
	buf.WriteString("---\n\n")
	buf.WriteString(Document(meta.Title, output))

	return buf.String(), nil
}

// Exporter writes documents into a directory
type Exporter struct {
	dir         string
	frontMatter bool
	now         func() time.Time
}

// NewExporter creates an exporter rooted at dir. An empty dir means the
// current directory.
func NewExporter(dir string, frontMatter bool) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir, frontMatter: frontMatter, now: time.Now}
}

// Dir returns the export directory
func (e *Exporter) Dir() string {
	return e.dir
}

// Result describes a built export
type Result struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Path     string `json:"path,omitempty"`
}

// Build returns the filename and document for output without touching disk
func (e *Exporter) Build(meta Meta, output string) (*Result, error) {
	if strings.TrimSpace(meta.Title) == "" {
		return nil, errors.ValidationError("export title is required")
	}

	content := Document(meta.Title, output)
	if e.frontMatter {
		if meta.ExportedAt.IsZero() {
			meta.ExportedAt = e.now().UTC()
		}
		var err error
		content, err = DocumentWithMeta(meta, output)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to build export")
		}
	}

	return &Result{Filename: Filename(meta.Title), Content: content}, nil
}

// Write builds the export and writes it to the export directory
func (e *Exporter) Write(meta Meta, output string) (*Result, error) {
	res, err := e.Build(meta, output)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, errors.StorageError("create export directory", err)
	}

	fullPath := filepath.Join(e.dir, res.Filename)
	if err := os.WriteFile(fullPath, []byte(res.Content), 0644); err != nil {
		return nil, errors.StorageError("write export file", err)
	}

	res.Path = fullPath
	return res, nil
}

// WriteFile writes "# {title}\n\n{output}" to dir and returns the file path
func WriteFile(dir, title, output string) (string, error) {
	res, err := NewExporter(dir, false).Write(Meta{Title: title}, output)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}
