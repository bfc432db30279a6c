package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrUnreadable = errors.New("couldn't read slides")

// Source is the Markdown of a presentation and the path it came from.
type Source struct {
	Path     string
	Markdown string
	// Title comes from a _title.md file next to the slides, if any.
	Title string
}

// Read loads slides from path. A directory is read as one slide per
// Markdown file, in name order, skipping files that start with "_".
func Read(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w %s: %v", ErrUnreadable, path, err)
	}
	if info.IsDir() {
		return readDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w %s: %v", ErrUnreadable, path, err)
	}
	return Source{Path: path, Markdown: string(data)}, nil
}

func readDir(dir string) (Source, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return Source{}, fmt.Errorf("%w %s: %v", ErrUnreadable, dir, err)
	}

	src := Source{Path: dir}
	if title, err := os.ReadFile(filepath.Join(dir, "_title.md")); err == nil {
		src.Title = strings.TrimSpace(string(title))
	}

	var filenames []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".md" && !strings.HasPrefix(file.Name(), "_") {
			filenames = append(filenames, file.Name())
		}
	}
	sort.Strings(filenames)

	parts := make([]string, 0, len(filenames))
	for _, filename := range filenames {
		content, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return Source{}, fmt.Errorf("%w %s: %v", ErrUnreadable, filename, err)
		}
		parts = append(parts, strings.TrimSpace(string(content)))
	}
	src.Markdown = strings.Join(parts, "\n\n---\n\n")
	return src, nil
}
