// Package export packages a project as a downloadable zip archive.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/format"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	readmeName    = "README.md"
	structureName = "PROJECT_STRUCTURE.md"
	consoleName   = "console_output.txt"
	describeName  = "code_description.txt"
	previewDir    = "preview"
)

var titler = cases.Title(language.English)

// Extras are optional artifacts added alongside the project files.
type Extras struct {
	ConsoleOutput string
	Description   string
}

// Archive is a finished zip file.
type Archive struct {
	Filename string
	Data     []byte
}

// Package builds a zip archive of proj. Project files are written first in
// display order; generated documents never replace a project file of the
// same name.
func Package(proj *project.Project, extras Extras) (*Archive, error) {
	if proj == nil {
		return nil, fmt.Errorf("export: nil project")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	written := make(map[string]bool)

	add := func(name, content string) error {
		name = safeName(name)
		if name == "" || written[name] {
			return nil
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: proj.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("export: adding %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return fmt.Errorf("export: writing %s: %w", name, err)
		}
		written[name] = true
		return nil
	}

	for _, name := range proj.FileOrder {
		if err := add(name, proj.Files[name].Content); err != nil {
			return nil, err
		}
	}

	readme := proj.Readme
	if strings.TrimSpace(readme) == "" {
		readme = Readme(proj)
	}
	if err := add(readmeName, readme); err != nil {
		return nil, err
	}
	if err := add(structureName, Structure(proj)); err != nil {
		return nil, err
	}
	if extras.ConsoleOutput != "" {
		if err := add(consoleName, extras.ConsoleOutput); err != nil {
			return nil, err
		}
	}
	if extras.Description != "" {
		if err := add(describeName, extras.Description); err != nil {
			return nil, err
		}
	}

	for _, name := range proj.FileOrder {
		rec := proj.Files[name]
		preview, err := format.HighlightHTML(rec.Content, rec.Language)
		if err != nil {
			return nil, fmt.Errorf("export: preview for %s: %w", name, err)
		}
		if err := add(path.Join(previewDir, name+".html"), preview); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("export: closing archive: %w", err)
	}

	return &Archive{
		Filename: ArchiveName(proj),
		Data:     buf.Bytes(),
	}, nil
}

// ArchiveName returns the download name for proj.
func ArchiveName(proj *project.Project) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(proj.Name))
	if name == "" {
		name = proj.ID
	}
	return name + ".zip"
}

// Readme generates a README for a project that has none.
func Readme(proj *project.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", proj.Name)
	sb.WriteString("## Description\n")
	sb.WriteString("This project was generated using V2C - Voice to Code AI Assistant.\n\n")
	sb.WriteString("## Files\n")
	for _, name := range proj.FileOrder {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	fmt.Fprintf(&sb, "\n## Programming Language\n%s\n\n", titler.String(proj.Language))
	sb.WriteString("## How to Run\n")
	sb.WriteString("1. Make sure you have the required dependencies installed\n")
	sb.WriteString("2. Run the main file to execute the program\n\n")
	fmt.Fprintf(&sb, "## Generated On\n%s\n\n", proj.CreatedAt.Format(time.RFC3339))
	sb.WriteString("---\n*Generated by V2C - Voice to Code AI Assistant*\n")
	return sb.String()
}

// Structure documents the archive layout and each file's metadata.
func Structure(proj *project.Project) string {
	var sb strings.Builder
	sb.WriteString("# Project Structure\n\n## Overview\n```\n")
	fmt.Fprintf(&sb, "%s/\n", proj.Name)
	fmt.Fprintf(&sb, "├── %s\n", readmeName)
	fmt.Fprintf(&sb, "├── %s\n", structureName)
	for _, name := range proj.FileOrder {
		fmt.Fprintf(&sb, "├── %s\n", name)
	}
	sb.WriteString("```\n\n## File Descriptions\n\n")

	for _, name := range proj.FileOrder {
		rec := proj.Files[name]
		fmt.Fprintf(&sb, "### %s\n", name)
		fmt.Fprintf(&sb, "- **Language**: %s\n", titler.String(rec.Language))
		fmt.Fprintf(&sb, "- **Created**: %s\n", rec.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "- **Size**: %s\n", humanize.Bytes(uint64(len(rec.Content))))
		fmt.Fprintf(&sb, "- **Purpose**: Main %s file\n\n", rec.Language)
	}
	return sb.String()
}

// safeName confines name to the archive root.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	cleaned := path.Clean("/" + name)
	return strings.TrimPrefix(cleaned, "/")
}
